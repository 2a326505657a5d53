// Package orchestrator turns translate and spell-check requests into prompts for
// the generation client and maps its failures to per-operation errors.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/valpere/tarjem/internal"
	"github.com/valpere/tarjem/internal/generator"
	"github.com/valpere/tarjem/internal/logging"
)

const (
	translateTemperature  float32 = 0.3
	spellCheckTemperature float32 = 0
)

var (
	ErrTranslationFailed = errors.New("translation failed")
	ErrSpellCheckFailed  = errors.New("spell check failed")
	ErrBusy              = errors.New("operation already in progress")
	ErrTextTooLong       = fmt.Errorf("text exceeds %d characters", internal.MaxTextLength)
)

type Kind int

const (
	KindTranslate Kind = iota
	KindSpellCheck
)

func (k Kind) String() string {
	switch k {
	case KindTranslate:
		return "translate"
	case KindSpellCheck:
		return "spellcheck"
	default:
		return "unknown"
	}
}

// Generator is the part of generator.Client the orchestrator needs.
type Generator interface {
	Generate(ctx context.Context, prompt string, temperature float32, thinkingBudget *int32) (string, error)
}

// OperationError reports a failed operation. It matches ErrTranslationFailed or
// ErrSpellCheckFailed and still unwraps to the generator cause.
type OperationError struct {
	Op  Kind
	Err error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s: %v", e.category(), e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

func (e *OperationError) Is(target error) bool {
	return target == e.category()
}

func (e *OperationError) category() error {
	if e.Op == KindSpellCheck {
		return ErrSpellCheckFailed
	}
	return ErrTranslationFailed
}

type OrchestratorConfig struct {
	// Timeout bounds a single generation call. Zero leaves the caller's context alone.
	Timeout time.Duration
}

type Orchestrator struct {
	gen      Generator
	config   OrchestratorConfig
	logger   *zap.Logger
	inFlight [2]atomic.Bool
}

func New(gen Generator, config OrchestratorConfig, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		gen:    gen,
		config: config,
		logger: logging.OrNop(logger),
	}
}

// Busy reports whether an operation of kind k is in flight.
func (o *Orchestrator) Busy(k Kind) bool {
	return o.inFlight[k].Load()
}

// Translate returns the translation of text. Blank text yields "" without a call.
func (o *Orchestrator) Translate(ctx context.Context, text, sourceLangName, targetLangName string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	if (internal.TranslationRequest{Text: text}).TooLong() {
		return "", ErrTextTooLong
	}

	return o.run(ctx, KindTranslate, TranslationPrompt(text, sourceLangName, targetLangName), translateTemperature)
}

// SpellCheck returns text with spelling and grammar corrected. Blank text is
// returned unchanged without a call.
func (o *Orchestrator) SpellCheck(ctx context.Context, text, sourceLangName string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	if (internal.TranslationRequest{Text: text}).TooLong() {
		return "", ErrTextTooLong
	}

	return o.run(ctx, KindSpellCheck, SpellCheckPrompt(text, sourceLangName), spellCheckTemperature)
}

func (o *Orchestrator) run(ctx context.Context, kind Kind, prompt string, temperature float32) (string, error) {
	flag := &o.inFlight[kind]
	if !flag.CompareAndSwap(false, true) {
		return "", ErrBusy
	}
	defer flag.Store(false)

	if o.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := o.gen.Generate(ctx, prompt, temperature, generator.Budget(0))
	if err != nil {
		o.logger.Debug("generation failed",
			zap.Stringer("op", kind),
			zap.Duration("elapsed", time.Since(start)),
			zap.Bool("invalid_credential", generator.IsInvalidCredential(err)),
			zap.Error(err))
		return "", &OperationError{Op: kind, Err: err}
	}

	o.logger.Debug("generation done",
		zap.Stringer("op", kind),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("chars", len([]rune(out))))
	return out, nil
}

// Corrected reports whether a spell-check result differs from its input.
func Corrected(original, result string) bool {
	return original != result
}
