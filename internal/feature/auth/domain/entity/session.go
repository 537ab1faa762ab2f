package entity

import "time"

// Session represents a user's refresh session.
// It stores session metadata for token rotation and security auditing.
type Session struct {
	ID        string     `json:"id"`         // Refresh token value (64-character hex string)
	UserID    uint       `json:"user_id"`    // Associated user ID
	UserAgent string     `json:"user_agent"` // Client's User-Agent header
	IPAddress string     `json:"ip_address"` // Client's IP address
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"` // nil while active
}

// IsExpired returns true if the session has passed its expiration time.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsRevoked returns true if the session has been revoked.
func (s *Session) IsRevoked() bool {
	return s.RevokedAt != nil
}

// IsValid returns true if the session is neither expired nor revoked.
func (s *Session) IsValid() bool {
	return !s.IsExpired() && !s.IsRevoked()
}
