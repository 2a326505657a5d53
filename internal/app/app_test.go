package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/tarjem/internal/generator"
	"github.com/valpere/tarjem/internal/history"
	"github.com/valpere/tarjem/internal/orchestrator"
)

type fakeClient struct {
	initErr   error
	verifyErr error
	inits     []string
	verifies  int
	resets    int
}

func (f *fakeClient) Initialize(ctx context.Context, credential string) error {
	f.inits = append(f.inits, credential)
	return f.initErr
}

func (f *fakeClient) Verify(ctx context.Context) error {
	f.verifies++
	return f.verifyErr
}

func (f *fakeClient) Reset() { f.resets++ }

type fakeOps struct {
	translateFunc  func(text, src, tgt string) (string, error)
	spellCheckFunc func(text, src string) (string, error)
	calls          int
}

func (f *fakeOps) Translate(ctx context.Context, text, src, tgt string) (string, error) {
	f.calls++
	return f.translateFunc(text, src, tgt)
}

func (f *fakeOps) SpellCheck(ctx context.Context, text, src string) (string, error) {
	f.calls++
	return f.spellCheckFunc(text, src)
}

type fakeCreds struct {
	value string
	set   bool
	ended bool
}

func (f *fakeCreds) Get() (string, bool) { return f.value, f.set }
func (f *fakeCreds) Set(c string) { f.value, f.set = c, true }
func (f *fakeCreds) Invalidate() { f.value, f.set = "", false }
func (f *fakeCreds) End() { f.Invalidate(); f.ended = true }

type fakeClipboard struct {
	err    error
	writes []string
}

func (f *fakeClipboard) WriteAll(text string) error {
	f.writes = append(f.writes, text)
	return f.err
}

type memSlot struct {
	mu      sync.Mutex
	data    []byte
	loadErr error
	saveErr error
}

func (m *memSlot) Load(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data, m.loadErr
}

func (m *memSlot) Save(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data = data
	return nil
}

type testClock struct{ t time.Time }

func (c *testClock) now() time.Time { return c.t }
func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type fixture struct {
	state  *State
	client *fakeClient
	ops    *fakeOps
	creds  *fakeCreds
	clip   *fakeClipboard
	slot   *memSlot
	clock  *testClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		client: &fakeClient{},
		ops: &fakeOps{
			translateFunc:  func(text, src, tgt string) (string, error) { return "translated", nil },
			spellCheckFunc: func(text, src string) (string, error) { return text, nil },
		},
		creds: &fakeCreds{},
		clip:  &fakeClipboard{},
		slot:  &memSlot{},
		clock: &testClock{t: time.UnixMilli(1700000000000)},
	}
	f.state = New(Options{
		Client:      f.client,
		Operations:  f.ops,
		History:     history.New(f.slot, history.WithClock(f.clock.now)),
		Credentials: f.creds,
		Clipboard:   f.clip,
		Clock:       f.clock.now,
	})
	return f
}

func TestNew_Defaults(t *testing.T) {
	f := newFixture(t)
	v := f.state.Snapshot()

	assert.Equal(t, "en", v.SourceLang)
	assert.Equal(t, "ar-IQ", v.TargetLang)
	assert.False(t, v.APIKeySet)
	assert.Empty(t, v.History)
}

func TestStart_RestoresStoredCredential(t *testing.T) {
	f := newFixture(t)
	f.creds.Set("AIza-stored")

	require.NoError(t, f.state.Start(context.Background()))

	assert.Equal(t, []string{"AIza-stored"}, f.client.inits)
	assert.Zero(t, f.client.verifies, "restored credential must not be verified")
	assert.True(t, f.state.Snapshot().APIKeySet)
}

func TestStart_DropsUnusableCredential(t *testing.T) {
	f := newFixture(t)
	f.creds.Set("bad")
	f.client.initErr = errors.New("boom")

	require.NoError(t, f.state.Start(context.Background()))

	assert.False(t, f.creds.set)
	assert.False(t, f.state.Snapshot().APIKeySet)
}

func TestStart_LoadsHistory(t *testing.T) {
	f := newFixture(t)
	f.slot.data = []byte(`[{"id":"a","sourceText":"Hi","translatedText":"Salut","sourceLang":"en","targetLang":"fr","timestamp":1}]`)

	require.NoError(t, f.state.Start(context.Background()))
	v := f.state.Snapshot()
	require.Len(t, v.History, 1)
	assert.Equal(t, "Salut", v.History[0].TranslatedText)
}

func TestStart_UnreadableHistoryStartsEmpty(t *testing.T) {
	f := newFixture(t)
	f.slot.loadErr = errors.New("permission denied")
	f.creds.Set("AIza-stored")

	require.NoError(t, f.state.Start(context.Background()))
	v := f.state.Snapshot()
	assert.Empty(t, v.History)
	assert.True(t, v.APIKeySet)

	f.slot.loadErr = nil
	f.state.SetSourceText("Hello")
	_, err := f.state.Translate(context.Background())
	require.NoError(t, err)
	assert.Len(t, f.state.Snapshot().History, 1)
}

func TestSaveAPIKey(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.state.SaveAPIKey(context.Background(), "  AIza-good \n"))

	assert.Equal(t, []string{"AIza-good"}, f.client.inits)
	assert.Equal(t, 1, f.client.verifies)
	assert.Equal(t, "AIza-good", f.creds.value)
	v := f.state.Snapshot()
	assert.True(t, v.APIKeySet)
	assert.Empty(t, v.KeyError)
}

func TestSaveAPIKey_Empty(t *testing.T) {
	f := newFixture(t)

	err := f.state.SaveAPIKey(context.Background(), "   ")
	assert.ErrorIs(t, err, generator.ErrMissingCredential)
	assert.Empty(t, f.client.inits)
	assert.Equal(t, MsgMissingKey, f.state.Snapshot().KeyError)
}

func TestSaveAPIKey_InitFailure(t *testing.T) {
	f := newFixture(t)
	f.client.initErr = errors.New("construct failed")

	err := f.state.SaveAPIKey(context.Background(), "k")
	assert.ErrorIs(t, err, ErrInitFailed)
	assert.Zero(t, f.client.verifies)
	assert.False(t, f.creds.set)
	assert.Equal(t, MsgInitFailed, f.state.Snapshot().KeyError)
}

func TestSaveAPIKey_VerifyFailure(t *testing.T) {
	f := newFixture(t)
	f.client.verifyErr = generator.ErrInvalidCredential

	err := f.state.SaveAPIKey(context.Background(), "k")
	assert.ErrorIs(t, err, generator.ErrInvalidCredential)
	assert.Equal(t, 1, f.client.resets)
	assert.False(t, f.creds.set)

	v := f.state.Snapshot()
	assert.False(t, v.APIKeySet)
	assert.Equal(t, MsgKeyRejected, v.KeyError)
}

func TestSkipVerification(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.state.SkipVerification(context.Background(), "k"))
	assert.Zero(t, f.client.verifies)
	assert.True(t, f.state.Snapshot().APIKeySet)
}

func TestTranslate_HelloScenario(t *testing.T) {
	f := newFixture(t)
	f.ops.translateFunc = func(text, src, tgt string) (string, error) {
		assert.Equal(t, "Hello", text)
		assert.Equal(t, "English", src)
		assert.Equal(t, "Arabic (Iraqi dialect)", tgt)
		return "مرحبا", nil
	}
	f.state.SetSourceText("Hello")

	out, err := f.state.Translate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "مرحبا", out)

	v := f.state.Snapshot()
	assert.Equal(t, "مرحبا", v.TranslatedText)
	assert.False(t, v.Translating)
	require.Len(t, v.History, 1)

	e := v.History[0]
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "Hello", e.SourceText)
	assert.Equal(t, "مرحبا", e.TranslatedText)
	assert.Equal(t, "en", e.SourceLang)
	assert.Equal(t, "ar-IQ", e.TargetLang)
	assert.Equal(t, "English", e.SourceLangName)
	assert.Equal(t, "Arabic (Iraqi dialect)", e.TargetLangName)
	assert.Equal(t, int64(1700000000000), e.Timestamp)
}

func TestTranslate_BlankClearsOutput(t *testing.T) {
	f := newFixture(t)
	f.state.ReuseEntry(history.Entry{SourceLang: "en", TargetLang: "fr", SourceText: " ", TranslatedText: "old"})

	out, err := f.state.Translate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Zero(t, f.ops.calls)

	v := f.state.Snapshot()
	assert.Empty(t, v.TranslatedText)
	assert.Empty(t, v.History)
}

func TestTranslate_UnknownLanguageFallsBack(t *testing.T) {
	f := newFixture(t)
	f.ops.translateFunc = func(text, src, tgt string) (string, error) {
		assert.Equal(t, "English", src)
		assert.Equal(t, "Arabic (Iraqi dialect)", tgt)
		return "x", nil
	}
	f.state.SetSourceLang("xx")
	f.state.SetTargetLang("yy")
	f.state.SetSourceText("text")

	_, err := f.state.Translate(context.Background())
	require.NoError(t, err)
}

func TestTranslate_Failure(t *testing.T) {
	f := newFixture(t)
	f.ops.translateFunc = func(text, src, tgt string) (string, error) {
		return "", &orchestrator.OperationError{Op: orchestrator.KindTranslate, Err: generator.ErrServiceUnavailable}
	}
	f.state.SetSourceText("Hello")

	_, err := f.state.Translate(context.Background())
	assert.ErrorIs(t, err, orchestrator.ErrTranslationFailed)

	v := f.state.Snapshot()
	assert.Equal(t, MsgTranslationFailed, v.Error)
	assert.Empty(t, v.TranslatedText)
	assert.Empty(t, v.History)
	assert.False(t, v.Translating)

	f.clock.advance(errorNoticeTTL)
	assert.Empty(t, f.state.Snapshot().Error)
}

func TestTranslate_InvalidKeyDropsCredential(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.state.SaveAPIKey(context.Background(), "k"))
	f.ops.translateFunc = func(text, src, tgt string) (string, error) {
		return "", &orchestrator.OperationError{Op: orchestrator.KindTranslate, Err: generator.Classify(errors.New("API key not valid"))}
	}
	f.state.SetSourceText("Hello")

	_, err := f.state.Translate(context.Background())
	require.Error(t, err)

	v := f.state.Snapshot()
	assert.Equal(t, MsgInvalidKey, v.Error)
	assert.False(t, v.APIKeySet)
	assert.False(t, f.creds.set)
	assert.Equal(t, 1, f.client.resets)
}

func TestTranslate_HistoryFailureKeepsResult(t *testing.T) {
	f := newFixture(t)
	f.slot.saveErr = errors.New("quota")
	f.state.SetSourceText("Hello")

	out, err := f.state.Translate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "translated", out)
	assert.Len(t, f.state.Snapshot().History, 1)
}

func TestSpellCheck(t *testing.T) {
	f := newFixture(t)
	f.ops.spellCheckFunc = func(text, src string) (string, error) { return "I have a cat", nil }
	f.state.SetSourceText("I has a cat")

	corrected, err := f.state.SpellCheck(context.Background())
	require.NoError(t, err)
	assert.True(t, corrected)

	v := f.state.Snapshot()
	assert.Equal(t, "I have a cat", v.SourceText)
	assert.Equal(t, MsgCorrected, v.Success)

	f.clock.advance(successNoticeTTL - time.Millisecond)
	assert.Equal(t, MsgCorrected, f.state.Snapshot().Success)
	f.clock.advance(time.Millisecond)
	assert.Empty(t, f.state.Snapshot().Success)
}

func TestSpellCheck_AlreadyCorrect(t *testing.T) {
	f := newFixture(t)
	f.state.SetSourceText("Fine.")

	corrected, err := f.state.SpellCheck(context.Background())
	require.NoError(t, err)
	assert.False(t, corrected)
	assert.Equal(t, MsgAlreadyCorrect, f.state.Snapshot().Success)
}

func TestSpellCheck_Blank(t *testing.T) {
	f := newFixture(t)
	f.state.SetSourceText("\t")

	corrected, err := f.state.SpellCheck(context.Background())
	require.NoError(t, err)
	assert.False(t, corrected)
	assert.Zero(t, f.ops.calls)
	assert.Equal(t, "\t", f.state.Snapshot().SourceText)
}

func TestSpellCheck_Failure(t *testing.T) {
	f := newFixture(t)
	f.ops.spellCheckFunc = func(text, src string) (string, error) {
		return "", &orchestrator.OperationError{Op: orchestrator.KindSpellCheck, Err: generator.ErrServiceUnavailable}
	}
	f.state.SetSourceText("text")

	_, err := f.state.SpellCheck(context.Background())
	assert.ErrorIs(t, err, orchestrator.ErrSpellCheckFailed)

	v := f.state.Snapshot()
	assert.Equal(t, MsgSpellCheckFailed, v.Error)
	assert.Equal(t, "text", v.SourceText)
	assert.False(t, v.Checking)
}

func TestSwap_IsItsOwnInverse(t *testing.T) {
	f := newFixture(t)
	f.state.SetSourceText("Hello")
	_, err := f.state.Translate(context.Background())
	require.NoError(t, err)

	before := f.state.Snapshot()
	f.state.Swap()

	swapped := f.state.Snapshot()
	assert.Equal(t, before.TargetLang, swapped.SourceLang)
	assert.Equal(t, before.SourceLang, swapped.TargetLang)
	assert.Equal(t, before.TranslatedText, swapped.SourceText)
	assert.Equal(t, before.SourceText, swapped.TranslatedText)

	f.state.Swap()
	assert.Equal(t, before, f.state.Snapshot())
}

func TestReuse(t *testing.T) {
	f := newFixture(t)
	f.state.SetSourceLang("fr")
	f.state.SetTargetLang("de")
	f.state.SetSourceText("Bonjour")
	_, err := f.state.Translate(context.Background())
	require.NoError(t, err)

	id := f.state.Snapshot().History[0].ID
	f.state.SetSourceLang("en")
	f.state.SetSourceText("other")
	f.state.ToggleHistory()

	require.True(t, f.state.Reuse(id))
	v := f.state.Snapshot()
	assert.Equal(t, "fr", v.SourceLang)
	assert.Equal(t, "de", v.TargetLang)
	assert.Equal(t, "Bonjour", v.SourceText)
	assert.Equal(t, "translated", v.TranslatedText)
	assert.False(t, v.HistoryVisible)

	assert.False(t, f.state.Reuse("missing"))
}

func TestCopy(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.state.Copy())
	assert.Empty(t, f.clip.writes, "empty buffer must not be copied")

	f.state.ReuseEntry(history.Entry{TranslatedText: "مرحبا"})
	require.NoError(t, f.state.Copy())
	assert.Equal(t, []string{"مرحبا"}, f.clip.writes)
	assert.True(t, f.state.Snapshot().Copied)

	require.NoError(t, f.state.Copy())
	assert.Len(t, f.clip.writes, 1, "copy while acknowledged is a no-op")

	f.clock.advance(copiedTTL)
	assert.False(t, f.state.Snapshot().Copied)
	require.NoError(t, f.state.Copy())
	assert.Len(t, f.clip.writes, 2)
}

func TestCopy_Failure(t *testing.T) {
	f := newFixture(t)
	f.clip.err = errors.New("no clipboard")
	f.state.ReuseEntry(history.Entry{TranslatedText: "x"})

	assert.Error(t, f.state.Copy())
	v := f.state.Snapshot()
	assert.Equal(t, MsgCopyFailed, v.Error)
	assert.False(t, v.Copied)

	f.clock.advance(copyErrorTTL)
	assert.Empty(t, f.state.Snapshot().Error)
}

type headlessClipboard struct{ fakeClipboard }

func (*headlessClipboard) Available() bool { return false }

func TestCopy_ClipboardUnavailable(t *testing.T) {
	f := newFixture(t)
	clip := &headlessClipboard{}
	state := New(Options{
		Client:      f.client,
		Operations:  f.ops,
		History:     history.New(f.slot),
		Credentials: f.creds,
		Clipboard:   clip,
		Clock:       f.clock.now,
	})
	state.ReuseEntry(history.Entry{TranslatedText: "x"})

	assert.ErrorIs(t, state.Copy(), ErrClipboardUnavailable)
	assert.Empty(t, clip.writes)
	v := state.Snapshot()
	assert.Equal(t, MsgCopyFailed, v.Error)
	assert.False(t, v.Copied)
}

func TestHistoryOperations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, text := range []string{"a", "b", "c"} {
		f.state.SetSourceText(text)
		_, err := f.state.Translate(ctx)
		require.NoError(t, err)
		f.clock.advance(time.Millisecond)
	}

	assert.True(t, f.state.ToggleHistory())
	assert.True(t, f.state.Snapshot().HistoryVisible)
	assert.False(t, f.state.ToggleHistory())

	list := f.state.Snapshot().History
	require.Len(t, list, 3)

	require.NoError(t, f.state.DeleteHistory(ctx, list[0].ID))
	require.NoError(t, f.state.DeleteHistoryAt(ctx, list[1].Timestamp))
	remaining := f.state.Snapshot().History
	require.Len(t, remaining, 1)
	assert.Equal(t, "a", remaining[0].SourceText)

	require.NoError(t, f.state.ClearHistory(ctx))
	assert.Empty(t, f.state.Snapshot().History)
}

func TestClose(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.state.SaveAPIKey(context.Background(), "k"))

	f.state.Close()
	assert.True(t, f.creds.ended)
	assert.Equal(t, 1, f.client.resets)
	assert.False(t, f.state.Snapshot().APIKeySet)
}
