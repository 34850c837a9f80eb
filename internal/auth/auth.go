// Package auth implements the two-factor gate: a shared passcode plus a
// per-user credential, resolving a role-scoped principal.
package auth

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/kesleylibanio/fretesopipa/internal/config"
	"github.com/kesleylibanio/fretesopipa/internal/model"
)

// ErrInvalidCredentials covers every failure mode. Which factor failed is
// deliberately not distinguished.
var ErrInvalidCredentials = errors.New("invalid credentials")

type Authenticator struct {
	passcode      string
	adminUsername string
	adminPassword string
}

func NewAuthenticator(cfg config.AuthConfig) *Authenticator {
	return &Authenticator{
		passcode:      cfg.Passcode,
		adminUsername: cfg.AdminUsername,
		adminPassword: cfg.AdminPassword,
	}
}

// Authenticate validates the shared passcode and the personal credential
// against the snapshot's login table. The admin identity is a configured
// override that bypasses the table.
func (a *Authenticator) Authenticate(snap model.Snapshot, username, password, passcode string) (model.Principal, error) {
	if passcode != a.passcode {
		return model.Principal{}, ErrInvalidCredentials
	}

	if strings.EqualFold(strings.TrimSpace(username), a.adminUsername) && password == a.adminPassword {
		return model.Principal{Username: a.adminUsername, Role: model.RoleAdmin}, nil
	}

	login, ok := findLogin(snap.Logins, username)
	if !ok || strings.TrimSpace(login.Password) != strings.TrimSpace(password) {
		return model.Principal{}, ErrInvalidCredentials
	}

	principal := model.Principal{Username: login.Username, Role: login.Role}
	if driver, ok := FindDriverForLogin(snap.Drivers, login); ok {
		principal.DriverID = driver.ID
	}
	return principal, nil
}

func findLogin(logins []model.Login, username string) (model.Login, bool) {
	needle := strings.ToLower(strings.TrimSpace(username))
	for _, l := range logins {
		if strings.ToLower(l.Username) == needle {
			return l, true
		}
	}
	return model.Login{}, false
}

// FindDriverForLogin joins a login to its driver. A driver login's id should
// equal the driver's id, but legacy rows diverge, so the lookup falls back to
// matching the username against the driver's plain or normalized name.
func FindDriverForLogin(drivers []model.Driver, login model.Login) (model.Driver, bool) {
	for _, d := range drivers {
		if d.ID == login.ID {
			return d, true
		}
	}
	needle := strings.ToLower(strings.TrimSpace(login.Username))
	for _, d := range drivers {
		if strings.ToLower(strings.TrimSpace(d.Name)) == needle || NormalizeUsername(d.Name) == needle {
			return d, true
		}
	}
	return model.Driver{}, false
}

// FindLoginForDriver is the reverse join used by the registration workflow.
func FindLoginForDriver(logins []model.Login, driver model.Driver) (model.Login, bool) {
	for _, l := range logins {
		if l.ID == driver.ID {
			return l, true
		}
	}
	normalized := NormalizeUsername(driver.Name)
	plain := strings.ToLower(strings.TrimSpace(driver.Name))
	for _, l := range logins {
		if l.Role != model.RoleDriver {
			continue
		}
		username := strings.ToLower(l.Username)
		if username == normalized || username == plain {
			return l, true
		}
	}
	return model.Login{}, false
}

// NormalizeUsername derives a login username from a display name: accents
// stripped, lowercased, spaces collapsed to dots.
func NormalizeUsername(name string) string {
	decomposed := norm.NFD.String(name)
	stripped := make([]rune, 0, len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		stripped = append(stripped, r)
	}
	result := strings.ToLower(strings.TrimSpace(string(stripped)))
	return strings.Join(strings.Fields(result), ".")
}
