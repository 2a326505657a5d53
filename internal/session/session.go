// Package session holds per-session secrets in memory. Nothing here is written
// to disk; entries expire after a fixed time-to-live.
package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CredentialKey is the name under which the generation credential is kept.
const CredentialKey = "geminiApiKey"

const (
	DefaultTTL  = 12 * time.Hour
	defaultSize = 128
)

type Store struct {
	cache *expirable.LRU[string, string]
}

// New returns a store whose entries live for ttl after they were last written.
// A non-positive ttl uses DefaultTTL.
func New(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{cache: expirable.NewLRU[string, string](defaultSize, nil, ttl)}
}

func NewSessionID() string {
	return uuid.NewString()
}

func key(sessionID, name string) string {
	return fmt.Sprintf("%s/%s", sessionID, name)
}

func (s *Store) Put(sessionID, name, value string) {
	s.cache.Add(key(sessionID, name), value)
}

func (s *Store) Get(sessionID, name string) (string, bool) {
	return s.cache.Get(key(sessionID, name))
}

func (s *Store) Delete(sessionID, name string) {
	s.cache.Remove(key(sessionID, name))
}

// End drops every value stored for sessionID.
func (s *Store) End(sessionID string) {
	prefix := sessionID + "/"
	for _, k := range s.cache.Keys() {
		if strings.HasPrefix(k, prefix) {
			s.cache.Remove(k)
		}
	}
}

// Credentials scopes the store to one session and the credential key.
type Credentials struct {
	store     *Store
	sessionID string
}

func (s *Store) Credentials(sessionID string) *Credentials {
	return &Credentials{store: s, sessionID: sessionID}
}

func (c *Credentials) Get() (string, bool) {
	return c.store.Get(c.sessionID, CredentialKey)
}

func (c *Credentials) Set(credential string) {
	c.store.Put(c.sessionID, CredentialKey, credential)
}

func (c *Credentials) Invalidate() {
	c.store.Delete(c.sessionID, CredentialKey)
}

func (c *Credentials) End() {
	c.store.End(c.sessionID)
}
