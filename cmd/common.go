/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/valpere/tarjem/internal/app"
	"github.com/valpere/tarjem/internal/config"
	"github.com/valpere/tarjem/internal/generator"
	"github.com/valpere/tarjem/internal/history"
	"github.com/valpere/tarjem/internal/logging"
	"github.com/valpere/tarjem/internal/orchestrator"
	"github.com/valpere/tarjem/internal/session"
	"github.com/valpere/tarjem/internal/store"
)

// ollamaPlaceholderKey stands in for a credential on Ollama servers without auth.
const ollamaPlaceholderKey = "ollama"

// appEnv is everything one CLI invocation wires together.
type appEnv struct {
	logger  *zap.Logger
	history *history.Store
	state   *app.State
	client  *generator.Client
	closers []io.Closer
}

func (r *appEnv) Close() {
	if r.state != nil {
		r.state.Close()
	}
	for i := len(r.closers) - 1; i >= 0; i-- {
		_ = r.closers[i].Close()
	}
	_ = r.logger.Sync()
}

// buildBackendFactory selects the generation backend named in the config.
func buildBackendFactory(c *config.Config) (generator.BackendFactory, error) {
	httpClient := &http.Client{Timeout: c.Timeout}

	switch c.Provider {
	case "gemini":
		return generator.GeminiFactory(c.Model, c.BaseURL, httpClient), nil
	case "openai":
		return generator.OpenAIFactory(c.Model, c.BaseURL, httpClient), nil
	case "ollama":
		return generator.OllamaFactory(c.BaseURL, c.Model, httpClient), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", c.Provider)
	}
}

// openHistorySlot returns the configured persistence slot and, for sqlite, the
// store that must be closed afterwards.
func openHistorySlot(c *config.Config) (history.Slot, io.Closer, error) {
	switch c.History.Backend {
	case "sqlite":
		if err := ensureDir(c.History.DB); err != nil {
			return nil, nil, err
		}
		db, err := store.New(c.History.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		return db.Slot(history.SlotName), db, nil
	default:
		return store.NewFileSlot(c.History.Path), nil, nil
	}
}

// openHistory builds the logger and an unloaded history store.
func openHistory() (*appEnv, error) {
	logger, err := logging.New(logging.Options{Production: cfg.Log.Production, Level: cfg.Log.Level})
	if err != nil {
		return nil, err
	}

	rt := &appEnv{logger: logger}
	slot, closer, err := openHistorySlot(cfg)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		rt.closers = append(rt.closers, closer)
	}

	if fs, ok := slot.(*store.FileSlot); ok {
		logger.Debug("history file", zap.String("path", fs.Path()))
	}

	rt.history = history.New(slot, history.WithLogger(logger))
	return rt, nil
}

// buildHistory opens and loads the history store alone, for commands that never
// call the generation service.
func buildHistory(ctx context.Context) (*appEnv, error) {
	rt, err := openHistory()
	if err != nil {
		return nil, err
	}
	if err := rt.history.Load(ctx); err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

// buildApp wires the full session: client, orchestrator, history and state.
// The history is loaded by app.State.Start.
func buildApp() (*appEnv, error) {
	rt, err := openHistory()
	if err != nil {
		return nil, err
	}

	factory, err := buildBackendFactory(cfg)
	if err != nil {
		rt.Close()
		return nil, err
	}

	rt.client = generator.NewClient(factory,
		generator.WithRateLimit(cfg.RateLimit),
		generator.WithLogger(rt.logger.Named("generator")))

	orch := orchestrator.New(rt.client, orchestrator.OrchestratorConfig{Timeout: cfg.Timeout}, rt.logger.Named("orchestrator"))

	sessions := session.New(cfg.Session.TTL)
	rt.state = app.New(app.Options{
		Client:      rt.client,
		Operations:  orch,
		History:     rt.history,
		Credentials: sessions.Credentials(session.NewSessionID()),
		Clipboard:   app.SystemClipboard{},
		Logger:      rt.logger.Named("app"),
	})
	return rt, nil
}

// authenticate makes sure the client holds an accepted key, prompting on a
// terminal when none was configured.
func authenticate(ctx context.Context, rt *appEnv) error {
	if rt.state.Snapshot().APIKeySet {
		return nil
	}

	key := strings.TrimSpace(cfg.APIKey)
	if key == "" && cfg.Provider == "ollama" {
		key = ollamaPlaceholderKey
	}
	if key == "" {
		prompted, err := promptSecret("API key: ")
		if err != nil {
			return err
		}
		key = prompted
	}

	if cfg.NoVerify || (cfg.Provider == "ollama" && key == ollamaPlaceholderKey) {
		return rt.state.SkipVerification(ctx, key)
	}
	if err := rt.state.SaveAPIKey(ctx, key); err != nil {
		if msg := rt.state.Snapshot().KeyError; msg != "" {
			return fmt.Errorf("%s (%w)", msg, err)
		}
		return err
	}
	return nil
}

const retryHint = "The generation service did not respond; try again in a moment."

// describeFailure turns a failed operation into the CLI error: the notice the
// session set, the cause, and a retry hint when the failure is transient.
func describeFailure(notice string, err error) error {
	if notice != "" {
		err = fmt.Errorf("%s (%w)", notice, err)
	}
	if generator.IsTransient(err) {
		return fmt.Errorf("%w\n%s", err, retryHint)
	}
	return err
}

// promptSecret reads a line from the terminal without echo.
func promptSecret(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("%w: pass --api-key or set TARJEM_API_KEY", generator.ErrMissingCredential)
	}

	fmt.Fprint(os.Stderr, label)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

// readInput returns the text from args, the input file, or stdin, in that order.
func readInput(args []string, inputFile string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if inputFile != "" && inputFile != "-" {
		data, err := os.ReadFile(inputFile)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		return string(data), nil
	}
	if inputFile == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("no text given: pass it as an argument, with --input, or on stdin")
	}
	data, err := io.ReadAll(bufio.NewReader(os.Stdin))
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

// writeOutput writes text to path, or to stdout when path is empty.
func writeOutput(path, text string) error {
	if path == "" {
		_, err := fmt.Fprintln(os.Stdout, text)
		return err
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
