package auth

import (
	"crypto/subtle"
	"errors"

	"github.com/qyinm/savorytui/prefs"
	"go.uber.org/zap"
)

// ErrWrongPassword is returned by Login for a mismatching secret.
var ErrWrongPassword = errors.New("incorrect password")

// FlagStore persists the authenticated flag between runs.
type FlagStore interface {
	Load() (prefs.Prefs, error)
	Update(fn func(*prefs.Prefs)) error
}

// Gate guards the back office with a single shared secret. It is a
// convenience lock, not an access control system.
type Gate struct {
	secret        string
	store         FlagStore
	log           *zap.SugaredLogger
	authenticated bool
}

// NewGate creates a gate for secret. When store is non-nil the previous
// session's flag is restored from it.
func NewGate(secret string, store FlagStore, log *zap.SugaredLogger) *Gate {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	g := &Gate{secret: secret, store: store, log: log}
	if store != nil {
		p, err := store.Load()
		if err != nil {
			log.Warnw("could not read admin flag", "error", err)
		}
		g.authenticated = p.AdminAuthenticated
	}
	return g
}

// Verify reports whether password matches the secret.
func (g *Gate) Verify(password string) bool {
	return subtle.ConstantTimeCompare([]byte(password), []byte(g.secret)) == 1
}

// Login marks the gate authenticated when password matches.
func (g *Gate) Login(password string) error {
	if !g.Verify(password) {
		g.log.Infow("admin login rejected")
		return ErrWrongPassword
	}
	g.authenticated = true
	g.persist(true)
	g.log.Infow("admin login")
	return nil
}

// Logout clears the flag.
func (g *Gate) Logout() {
	g.authenticated = false
	g.persist(false)
}

// Authenticated reports whether the back office is unlocked.
func (g *Gate) Authenticated() bool { return g.authenticated }

// Secret returns the shared secret for requests that must carry it.
func (g *Gate) Secret() string { return g.secret }

func (g *Gate) persist(v bool) {
	if g.store == nil {
		return
	}
	if err := g.store.Update(func(p *prefs.Prefs) { p.AdminAuthenticated = v }); err != nil {
		g.log.Warnw("could not save admin flag", "error", err)
	}
}
