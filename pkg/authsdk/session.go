package authsdk

import "sync"

// SessionState is the script-visible half of a session: the in-memory access
// token and the identity it was issued for. The two are always set and
// cleared together, so observers never see a token without knowing who it
// belongs to. The refresh token is deliberately absent; it lives only in the
// HTTP client's cookie jar.
type SessionState struct {
	mu          sync.RWMutex
	accessToken string
	identity    *UserPayload
}

// Set installs a new access token and its identity atomically.
func (s *SessionState) Set(accessToken string, identity UserPayload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = accessToken
	s.identity = &identity
}

// Clear wipes the session. Safe to call repeatedly.
func (s *SessionState) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = ""
	s.identity = nil
}

// Authenticated reports whether a session is currently held. The token may
// still be expired server-side; the transport recovers from that silently.
func (s *SessionState) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken != ""
}

// AccessToken returns the current access token, or "" when logged out.
func (s *SessionState) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// Identity returns the identity of the current session.
func (s *SessionState) Identity() (UserPayload, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return UserPayload{}, false
	}
	return *s.identity, true
}
