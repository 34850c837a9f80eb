package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/kesleylibanio/fretesopipa/internal/auth"
	"github.com/kesleylibanio/fretesopipa/internal/model"
	"github.com/kesleylibanio/fretesopipa/internal/sheets"
	"github.com/kesleylibanio/fretesopipa/internal/store"
)

type AuthService struct {
	store  *store.Store
	sheets *sheets.Client
	auth   *auth.Authenticator
	tokens *auth.TokenManager
	log    zerolog.Logger
}

func NewAuthService(st *store.Store, client *sheets.Client, authenticator *auth.Authenticator, tokens *auth.TokenManager, log zerolog.Logger) *AuthService {
	return &AuthService{store: st, sheets: client, auth: authenticator, tokens: tokens, log: log}
}

type LoginResult struct {
	Token   string          `json:"token"`
	Session model.Principal `json:"session"`
}

// Login refreshes the snapshot from the remote store and validates both
// factors. The admin override works even when the refresh fails, so the
// operator can still get in while the sheet endpoint is down.
func (s *AuthService) Login(ctx context.Context, username, password, passcode string) (LoginResult, error) {
	snap, fetchErr := s.sheets.Fetch(ctx)
	if fetchErr == nil {
		s.store.Load(snap)
	} else {
		s.log.Error().Err(fetchErr).Msg("login-time snapshot refresh failed")
	}

	principal, err := s.auth.Authenticate(s.store.View(), username, password, passcode)
	if err != nil {
		if fetchErr != nil {
			return LoginResult{}, ErrLoadFailed
		}
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	token, err := s.tokens.Issue(principal)
	if err != nil {
		return LoginResult{}, err
	}
	s.log.Info().Str("username", principal.Username).Str("role", string(principal.Role)).Msg("login accepted")
	return LoginResult{Token: token, Session: principal}, nil
}
