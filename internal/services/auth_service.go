package services

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/repos"
	"storefront/internal/validate"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	Users  repos.Users
	Tokens *Tokens
	Cost   int
}

func NewAuthService(users repos.Users, tokens *Tokens, cost int) *AuthService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{Users: users, Tokens: tokens, Cost: cost}
}

// Session is what a successful login hands back.
type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register creates a user. The email pre-check is advisory; the store's
// unique constraint settles concurrent registrations.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	email, ok := validate.Email(email)
	if !ok {
		return nil, ErrInvalidEmail
	}
	_, err := s.Users.ByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, repos.ErrNotFound):
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := HashPassword(password, s.Cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &domain.User{Email: email, Name: name, Hash: hash}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repos.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// Login answers ErrBadCreds for every credential failure so callers cannot
// tell an unknown email from a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email, ok := validate.Email(email)
	if !ok {
		return nil, ErrBadCreds
	}
	u, err := s.Users.ByEmail(ctx, email)
	if errors.Is(err, repos.ErrNotFound) {
		return nil, ErrBadCreds
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !CheckPassword(u.Hash, password) {
		return nil, ErrBadCreds
	}
	tok, err := s.Tokens.Issue(u.ID.Hex())
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{AccessToken: tok, TokenType: TokenType}, nil
}

// CurrentUser resolves a bearer token to its user.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	sub, err := s.Tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	id, ok := validate.ID(sub)
	if !ok {
		return nil, ErrInvalidToken
	}
	u, err := s.Users.ByID(ctx, id)
	if errors.Is(err, repos.ErrNotFound) {
		return nil, NotFound("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return u, nil
}
