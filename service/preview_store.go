package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultPreviewTTL is how long an unrevoked interactive preview is served
const DefaultPreviewTTL = 30 * time.Minute

// PreviewStore holds rendered interactive documents under random tokens until
// they are revoked or expire
type PreviewStore struct {
	mu      sync.Mutex
	entries map[string]previewEntry
	ttl     time.Duration
	now     func() time.Time
}

type previewEntry struct {
	html      string
	expiresAt time.Time
}

// NewPreviewStore creates a preview store
func NewPreviewStore(ttl time.Duration) *PreviewStore {
	if ttl <= 0 {
		ttl = DefaultPreviewTTL
	}
	return &PreviewStore{entries: make(map[string]previewEntry), ttl: ttl, now: time.Now}
}

// Put stores the document and returns its token
func (s *PreviewStore) Put(html string) string {
	token := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()
	s.entries[token] = previewEntry{html: html, expiresAt: s.now().Add(s.ttl)}
	return token
}

// Get returns the document while it is live
func (s *PreviewStore) Get(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[token]
	if !ok {
		return "", false
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, token)
		return "", false
	}
	return e.html, true
}

// Revoke releases the document; it reports whether the token was live
func (s *PreviewStore) Revoke(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[token]
	delete(s.entries, token)
	return ok && s.now().Before(e.expiresAt)
}

// Len returns the number of live previews
func (s *PreviewStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	return len(s.entries)
}

func (s *PreviewStore) sweepLocked() {
	now := s.now()
	for token, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, token)
		}
	}
}
