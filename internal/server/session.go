package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samlatif/network/internal/config"
	"github.com/samlatif/network/internal/server/middleware"
)

// sessionCodec encodes the session cookie. Without a secret the cookie holds
// the plain username; with one it holds an HS256 token whose subject is the
// username.
type sessionCodec struct {
	config config.SessionConfig
	now    func() time.Time
}

func newSessionCodec(cfg config.SessionConfig) *sessionCodec {
	return &sessionCodec{config: cfg, now: time.Now}
}

// EncodeSession returns the cookie value for username.
func (c *sessionCodec) EncodeSession(username string) (string, error) {
	if !c.config.Signed() {
		return username, nil
	}

	now := c.now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.config.TTL())),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(c.config.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return token, nil
}

// DecodeSession returns the username carried by a cookie value.
// This implements the middleware.SessionDecoder interface.
func (c *sessionCodec) DecodeSession(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("session is empty")
	}
	if !c.config.Signed() {
		return value, nil
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(value, claims,
		func(*jwt.Token) (any, error) { return []byte(c.config.Secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", fmt.Errorf("session expired: %w", err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", fmt.Errorf("invalid session signature: %w", err)
		default:
			return "", fmt.Errorf("failed to parse session: %w", err)
		}
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("session has no subject")
	}
	return claims.Subject, nil
}

func (c *sessionCodec) cookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(c.config.TTL().Seconds()),
		HttpOnly: true,
		Secure:   c.config.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

func (c *sessionCodec) expiredCookie() *http.Cookie {
	cookie := c.cookie("")
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0)
	return cookie
}
