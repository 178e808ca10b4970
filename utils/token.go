package utils

import (
	"context"
	"time"
)

// Revoke blacklists a token until its own expiry. Tokens that do not parse
// are kept for the manager ttl.
func (m *TokenManager) Revoke(tokenString string) {
	expiry := m.now().Add(m.ttl)
	if claims, err := m.ParseToken(tokenString); err == nil && claims.ExpiresAt != nil {
		expiry = claims.ExpiresAt.Time
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[tokenString] = expiry
}

func (m *TokenManager) IsRevoked(tokenString string) bool {
	m.mu.RLock()
	expiry, exists := m.revoked[tokenString]
	m.mu.RUnlock()
	if !exists {
		return false
	}
	if m.now().Before(expiry) {
		return true
	}

	m.mu.Lock()
	delete(m.revoked, tokenString)
	m.mu.Unlock()
	return false
}

// PurgeExpired drops blacklist entries whose token has expired anyway.
func (m *TokenManager) PurgeExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	purged := 0
	for token, expiry := range m.revoked {
		if now.After(expiry) {
			delete(m.revoked, token)
			purged++
		}
	}
	return purged
}

// RunJanitor purges the blacklist every interval until ctx is done.
func (m *TokenManager) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.PurgeExpired(); n > 0 {
				Info().WithField("purged", n).Debug("token blacklist cleaned")
			}
		}
	}
}
