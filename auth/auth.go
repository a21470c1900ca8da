// Package auth checks usernames and passwords against a configured set of
// bcrypt hashes and carries the authenticated user on the request context.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for an unknown user or a wrong password.
var ErrInvalidCredentials = errors.New("invalid username or password")

// dummyHash is compared against when the user does not exist so that
// unknown and known users take the same time.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("debrief"), bcrypt.DefaultCost)

// Credentials maps usernames to bcrypt password hashes.
type Credentials struct {
	hashes map[string][]byte
}

// NewCredentials validates the hashes and builds a credential set.
func NewCredentials(users map[string]string) (*Credentials, error) {
	c := &Credentials{hashes: make(map[string][]byte, len(users))}
	for name, hash := range users {
		if name == "" {
			return nil, errors.New("auth: empty username")
		}
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("auth: user %q: not a bcrypt hash: %w", name, err)
		}
		c.hashes[name] = []byte(hash)
	}
	return c, nil
}

// Users returns the configured usernames in sorted order.
func (c *Credentials) Users() []string {
	names := make([]string, 0, len(c.hashes))
	for name := range c.hashes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Empty reports whether no user is configured.
func (c *Credentials) Empty() bool {
	return c == nil || len(c.hashes) == 0
}

// Verify checks a username and password.
func (c *Credentials) Verify(username, password string) error {
	hash, ok := c.hashes[username]
	if !ok {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// HashPassword returns a bcrypt hash suitable for the configuration file.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("auth: empty password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

type userKey struct{}

// WithUser returns a context carrying the authenticated username.
func WithUser(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, userKey{}, username)
}

// UserFrom returns the authenticated username, or "" when absent.
func UserFrom(ctx context.Context) string {
	u, _ := ctx.Value(userKey{}).(string)
	return u
}

// BasicAuth returns middleware that requires HTTP Basic credentials from
// the set and injects the username into the request context.
func BasicAuth(c *Credentials, realm string) func(http.Handler) http.Handler {
	challenge := fmt.Sprintf("Basic realm=%q, charset=\"UTF-8\"", realm)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok || c.Verify(user, pass) != nil {
				w.Header().Set("WWW-Authenticate", challenge)
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}
