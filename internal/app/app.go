// Package app holds the state of one interactive translation session: language
// selection, text buffers, busy flags and transient notices, plus the glue
// between the generation client, the orchestrator and the history store.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/valpere/tarjem/internal/generator"
	"github.com/valpere/tarjem/internal/history"
	"github.com/valpere/tarjem/internal/language"
	"github.com/valpere/tarjem/internal/logging"
	"github.com/valpere/tarjem/internal/orchestrator"
)

const (
	errorNoticeTTL   = 4000 * time.Millisecond
	successNoticeTTL = 3000 * time.Millisecond
	copiedTTL        = 2000 * time.Millisecond
	copyErrorTTL     = 3000 * time.Millisecond
)

// User-facing messages.
const (
	MsgMissingKey        = "Please enter a valid API key."
	MsgKeyRejected       = "The key you entered is invalid or a network error occurred. Please check it."
	MsgInitFailed        = "Failed to initialize the generation service. Please check the key and try again."
	MsgTranslationFailed = "An error occurred during translation. Please try again."
	MsgSpellCheckFailed  = "An error occurred during spell check. Please try again."
	MsgInvalidKey        = "API key is invalid. Please enter it again."
	MsgCorrected         = "Text corrected successfully!"
	MsgAlreadyCorrect    = "Text is already correct."
	MsgCopyFailed        = "Failed to copy text to clipboard."
)

// ErrInitFailed reports that the generation client could not be built from a key.
var ErrInitFailed = errors.New("failed to initialize generation service")

// Client is the part of generator.Client the session drives.
type Client interface {
	Initialize(ctx context.Context, credential string) error
	Verify(ctx context.Context) error
	Reset()
}

// Operations runs the two text operations.
type Operations interface {
	Translate(ctx context.Context, text, sourceLangName, targetLangName string) (string, error)
	SpellCheck(ctx context.Context, text, sourceLangName string) (string, error)
}

// Credentials is the session-scoped credential slot.
type Credentials interface {
	Get() (string, bool)
	Set(credential string)
	Invalidate()
	End()
}

type Clipboard interface {
	WriteAll(text string) error
}

// ErrClipboardUnavailable is returned by Copy when the clipboard reports that
// no system clipboard can be reached.
var ErrClipboardUnavailable = errors.New("no clipboard available")

type Options struct {
	Client      Client
	Operations  Operations
	History     *history.Store
	Credentials Credentials
	Clipboard   Clipboard
	Clock       func() time.Time
	Logger      *zap.Logger
}

type notice struct {
	text    string
	expires time.Time
}

func (n notice) active(now time.Time) string {
	if n.text == "" || !now.Before(n.expires) {
		return ""
	}
	return n.text
}

type State struct {
	client    Client
	ops       Operations
	history   *history.Store
	creds     Credentials
	clipboard Clipboard
	now       func() time.Time
	logger    *zap.Logger

	mu             sync.Mutex
	sourceLang     string
	targetLang     string
	sourceText     string
	translatedText string
	translating    bool
	checking       bool
	apiKeySet      bool
	historyVisible bool
	keyError       string
	errorNotice    notice
	successNotice  notice
	copiedUntil    time.Time
}

func New(opts Options) *State {
	s := &State{
		client:     opts.Client,
		ops:        opts.Operations,
		history:    opts.History,
		creds:      opts.Credentials,
		clipboard:  opts.Clipboard,
		now:        opts.Clock,
		logger:     logging.OrNop(opts.Logger),
		sourceLang: language.DefaultSource,
		targetLang: language.DefaultTarget,
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Start loads the history and restores a credential kept in the session. A
// restored credential is not verified; one that fails to initialize is dropped.
func (s *State) Start(ctx context.Context) error {
	if err := s.history.Load(ctx); err != nil {
		return err
	}

	stored, ok := s.creds.Get()
	if !ok {
		return nil
	}
	if err := s.client.Initialize(ctx, stored); err != nil {
		s.logger.Warn("stored credential rejected", zap.Error(err))
		s.creds.Invalidate()
		return nil
	}

	s.mu.Lock()
	s.apiKeySet = true
	s.mu.Unlock()
	return nil
}

// SaveAPIKey initializes the client with key and verifies it with a test call.
// Only a verified key is kept in the session.
func (s *State) SaveAPIKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)

	s.mu.Lock()
	s.keyError = ""
	s.mu.Unlock()

	if key == "" {
		s.setKeyError(MsgMissingKey)
		return generator.ErrMissingCredential
	}

	if err := s.client.Initialize(ctx, key); err != nil {
		s.setKeyError(MsgInitFailed)
		return fmt.Errorf("%w: %w", ErrInitFailed, err)
	}

	if err := s.client.Verify(ctx); err != nil {
		s.logger.Warn("credential verification failed", zap.Error(err))
		s.client.Reset()
		s.mu.Lock()
		s.apiKeySet = false
		s.keyError = MsgKeyRejected
		s.mu.Unlock()
		return err
	}

	s.creds.Set(key)
	s.mu.Lock()
	s.apiKeySet = true
	s.mu.Unlock()
	return nil
}

// SkipVerification marks a key as accepted after a bare Initialize.
func (s *State) SkipVerification(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		s.setKeyError(MsgMissingKey)
		return generator.ErrMissingCredential
	}
	if err := s.client.Initialize(ctx, key); err != nil {
		s.setKeyError(MsgInitFailed)
		return fmt.Errorf("%w: %w", ErrInitFailed, err)
	}
	s.creds.Set(key)
	s.mu.Lock()
	s.apiKeySet = true
	s.keyError = ""
	s.mu.Unlock()
	return nil
}

func (s *State) setKeyError(msg string) {
	s.mu.Lock()
	s.keyError = msg
	s.mu.Unlock()
}

// Translate translates the source buffer into the translated buffer and records
// the result in history.
func (s *State) Translate(ctx context.Context) (string, error) {
	s.mu.Lock()
	text := s.sourceText
	if strings.TrimSpace(text) == "" {
		s.translatedText = ""
		s.mu.Unlock()
		return "", nil
	}
	if s.translating {
		s.mu.Unlock()
		return "", orchestrator.ErrBusy
	}
	s.translating = true
	s.errorNotice = notice{}
	s.translatedText = ""
	srcCode, tgtCode := s.sourceLang, s.targetLang
	s.mu.Unlock()

	srcName := language.SourceName(srcCode)
	tgtName := language.TargetName(tgtCode)

	result, err := s.ops.Translate(ctx, text, srcName, tgtName)

	s.mu.Lock()
	s.translating = false
	if err != nil {
		s.failLocked(err, MsgTranslationFailed)
		s.mu.Unlock()
		return "", err
	}
	s.translatedText = result
	s.mu.Unlock()

	_, herr := s.history.Add(ctx, history.Entry{
		SourceText:     text,
		TranslatedText: result,
		SourceLang:     srcCode,
		TargetLang:     tgtCode,
		SourceLangName: srcName,
		TargetLangName: tgtName,
		Timestamp:      s.now().UnixMilli(),
	})
	if herr != nil {
		s.logger.Warn("translation not saved to history", zap.Error(herr))
	}
	return result, nil
}

// SpellCheck replaces the source buffer with its corrected form and reports
// whether anything changed.
func (s *State) SpellCheck(ctx context.Context) (bool, error) {
	s.mu.Lock()
	text := s.sourceText
	if strings.TrimSpace(text) == "" {
		s.mu.Unlock()
		return false, nil
	}
	if s.checking {
		s.mu.Unlock()
		return false, orchestrator.ErrBusy
	}
	s.checking = true
	s.errorNotice = notice{}
	s.successNotice = notice{}
	srcCode := s.sourceLang
	s.mu.Unlock()

	result, err := s.ops.SpellCheck(ctx, text, language.SourceName(srcCode))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.checking = false
	if err != nil {
		s.failLocked(err, MsgSpellCheckFailed)
		return false, err
	}

	s.sourceText = result
	corrected := orchestrator.Corrected(text, result)
	msg := MsgAlreadyCorrect
	if corrected {
		msg = MsgCorrected
	}
	s.successNotice = notice{text: msg, expires: s.now().Add(successNoticeTTL)}
	return corrected, nil
}

// failLocked sets the error notice for a failed operation. An invalid key also
// drops the credential so the user is asked for a new one. Callers hold s.mu.
func (s *State) failLocked(err error, msg string) {
	if generator.IsInvalidCredential(err) {
		msg = MsgInvalidKey
		s.client.Reset()
		s.creds.Invalidate()
		s.apiKeySet = false
		s.keyError = MsgInvalidKey
	}
	s.errorNotice = notice{text: msg, expires: s.now().Add(errorNoticeTTL)}
}

// Swap exchanges the languages and the two text buffers.
func (s *State) Swap() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sourceLang, s.targetLang = s.targetLang, s.sourceLang
	s.sourceText, s.translatedText = s.translatedText, s.sourceText
}

// Reuse loads the history entry with id into the buffers.
func (s *State) Reuse(id string) bool {
	e, ok := s.history.Get(id)
	if !ok {
		return false
	}
	s.ReuseEntry(e)
	return true
}

func (s *State) ReuseEntry(e history.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sourceLang = e.SourceLang
	s.targetLang = e.TargetLang
	s.sourceText = e.SourceText
	s.translatedText = e.TranslatedText
	s.historyVisible = false
}

// Copy writes the translated buffer to the clipboard. It does nothing when the
// buffer is empty or a previous copy is still being acknowledged.
func (s *State) Copy() error {
	s.mu.Lock()
	text := s.translatedText
	now := s.now()
	if text == "" || now.Before(s.copiedUntil) {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	err := ErrClipboardUnavailable
	if available(s.clipboard) {
		err = s.clipboard.WriteAll(text)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.logger.Warn("clipboard write failed", zap.Error(err))
		s.errorNotice = notice{text: MsgCopyFailed, expires: s.now().Add(copyErrorTTL)}
		return err
	}
	s.copiedUntil = s.now().Add(copiedTTL)
	return nil
}

// available asks c whether it can reach a clipboard. Clipboards that cannot
// tell are assumed to be available.
func available(c Clipboard) bool {
	if a, ok := c.(interface{ Available() bool }); ok {
		return a.Available()
	}
	return true
}

func (s *State) ToggleHistory() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.historyVisible = !s.historyVisible
	return s.historyVisible
}

func (s *State) DeleteHistory(ctx context.Context, id string) error {
	return s.history.Remove(ctx, id)
}

func (s *State) DeleteHistoryAt(ctx context.Context, ts int64) error {
	return s.history.RemoveTimestamp(ctx, ts)
}

func (s *State) ClearHistory(ctx context.Context) error {
	return s.history.Clear(ctx)
}

func (s *State) SetSourceText(text string) {
	s.mu.Lock()
	s.sourceText = text
	s.mu.Unlock()
}

func (s *State) SetSourceLang(code string) {
	s.mu.Lock()
	s.sourceLang = code
	s.mu.Unlock()
}

func (s *State) SetTargetLang(code string) {
	s.mu.Lock()
	s.targetLang = code
	s.mu.Unlock()
}

// Close ends the session: the client forgets its backend and the session
// credential is dropped.
func (s *State) Close() {
	s.client.Reset()
	s.creds.End()
	s.mu.Lock()
	s.apiKeySet = false
	s.mu.Unlock()
}
