package domain

import "time"

// AccessToken is a bearer token with a locally enforced expiry.
type AccessToken struct {
	Value     string
	ExpiresAt time.Time
}

// Valid reports whether the token is usable at now.
func (t AccessToken) Valid(now time.Time) bool {
	return t.Value != "" && now.Before(t.ExpiresAt)
}
