// internal/auth/token.go
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Claims is the payload of a bearer token. Only the user id and expiry are
// carried: role and office are loaded fresh per request, so a role change
// takes effect on the next call, not at the next login.
type Claims struct {
	UserID uuid.UUID `json:"uid"`
	Expiry time.Time `json:"exp"`
}

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Tokens signs and verifies bearer tokens with HMAC-SHA256. The secret
// comes from config; rotating it invalidates all outstanding tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl}
}

func (t *Tokens) sign(payload []byte) []byte {
	mac := hmac.New(sha256.New, t.secret)
	mac.Write(payload)
	return mac.Sum(nil)
}

// Issue returns a token "<base64 claims>.<base64 mac>" for the user.
func (t *Tokens) Issue(userID uuid.UUID) (string, error) {
	c := Claims{UserID: userID, Expiry: time.Now().Add(t.ttl)}
	payload, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	enc := base64.RawURLEncoding
	return enc.EncodeToString(payload) + "." + enc.EncodeToString(t.sign(payload)), nil
}

// Verify checks the signature and expiry and returns the claims.
func (t *Tokens) Verify(token string) (Claims, error) {
	enc := base64.RawURLEncoding
	payloadPart, macPart, ok := strings.Cut(token, ".")
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	payload, err := enc.DecodeString(payloadPart)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	mac, err := enc.DecodeString(macPart)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	if !hmac.Equal(mac, t.sign(payload)) {
		return Claims{}, ErrInvalidToken
	}
	var c Claims
	if json.Unmarshal(payload, &c) != nil {
		return Claims{}, ErrInvalidToken
	}
	if c.Expiry.Before(time.Now()) {
		return Claims{}, ErrTokenExpired
	}
	return c, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	tok := strings.TrimSpace(header[len(prefix):])
	return tok, tok != ""
}
