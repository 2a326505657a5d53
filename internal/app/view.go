package app

import "github.com/valpere/tarjem/internal/history"

// View is a point-in-time copy of the session state for rendering.
type View struct {
	SourceLang     string
	TargetLang     string
	SourceText     string
	TranslatedText string
	Translating    bool
	Checking       bool
	Copied         bool
	APIKeySet      bool
	HistoryVisible bool
	KeyError       string
	Error          string
	Success        string
	History        []history.Entry
}

func (s *State) Snapshot() View {
	entries := s.history.List()

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	return View{
		SourceLang:     s.sourceLang,
		TargetLang:     s.targetLang,
		SourceText:     s.sourceText,
		TranslatedText: s.translatedText,
		Translating:    s.translating,
		Checking:       s.checking,
		Copied:         now.Before(s.copiedUntil),
		APIKeySet:      s.apiKeySet,
		HistoryVisible: s.historyVisible,
		KeyError:       s.keyError,
		Error:          s.errorNotice.active(now),
		Success:        s.successNotice.active(now),
		History:        entries,
	}
}
