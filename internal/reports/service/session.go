package service

import (
	"time"

	"github.com/Madjob23/ngo-reports/pkg/jwtx"
)

// SessionService issues and verifies the signed session tokens carried
// in the auth cookie. Tokens are self-contained: nothing is persisted
// server-side, validity is purely cryptographic.
type SessionService struct {
	Tokens *jwtx.HS256
	TTL    time.Duration
}

// Issue produces a signed token for the given user id, valid from now
// until now + TTL.
func (s *SessionService) Issue(userID string) (string, error) {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}
	claims := jwtx.NewSessionClaims(userID, s.Tokens.Issuer(), ttl, time.Now())
	return s.Tokens.Sign(claims)
}

// Verify validates a token and returns the embedded user id. Expired,
// malformed and badly-signed tokens are deliberately not distinguished:
// the caller only learns that the session is invalid.
func (s *SessionService) Verify(token string) (string, error) {
	claims, err := s.Tokens.Verify(token)
	if err != nil {
		return "", ErrNotAuthenticated
	}
	return claims.Subject, nil
}
