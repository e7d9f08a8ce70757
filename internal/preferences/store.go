package preferences

import (
	"context"
	"sync"
)

// Store holds per-(viewer, peer) translation preferences. Writes are
// last-write-wins; there is no delete, entries live for the store's lifetime.
type Store interface {
	// Set upserts the viewer's preference toward peer and returns the
	// normalized stored value. An empty targetLang defaults to "en".
	Set(ctx context.Context, viewer, peer string, autoTranslate bool, targetLang string) (Preference, error)

	// Get returns the stored preference, or the default when absent.
	Get(ctx context.Context, viewer, peer string) (Preference, error)
}

func normalize(autoTranslate bool, targetLang string) Preference {
	if targetLang == "" {
		targetLang = "en"
	}
	return Preference{
		AutoTranslate: autoTranslate,
		TargetLang:    targetLang,
	}
}

func pairKey(viewer, peer string) string {
	return viewer + ":" + peer
}

// MemoryStore is the in-process store used by default.
type MemoryStore struct {
	mu    sync.RWMutex
	prefs map[string]Preference
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		prefs: make(map[string]Preference),
	}
}

func (s *MemoryStore) Set(_ context.Context, viewer, peer string, autoTranslate bool, targetLang string) (Preference, error) {
	pref := normalize(autoTranslate, targetLang)

	s.mu.Lock()
	s.prefs[pairKey(viewer, peer)] = pref
	s.mu.Unlock()

	return pref, nil
}

func (s *MemoryStore) Get(_ context.Context, viewer, peer string) (Preference, error) {
	s.mu.RLock()
	pref, ok := s.prefs[pairKey(viewer, peer)]
	s.mu.RUnlock()

	if !ok {
		return DefaultPreference(), nil
	}
	return pref, nil
}
