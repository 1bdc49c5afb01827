package app

import (
	"context"
	"errors"

	"staybook/internal/domain"
)

type AuthService struct {
	store  domain.Store
	tokens domain.Tokens
	creds  domain.Credentials
}

func NewAuthService(s domain.Store, t domain.Tokens, c domain.Credentials) *AuthService {
	return &AuthService{store: s, tokens: t, creds: c}
}

func (s *AuthService) Signup(ctx context.Context, username, fullName, email, password string) (string, error) {
	if username == "" || email == "" || password == "" {
		return "", &domain.ValidationError{Reason: "username, email and password are required"}
	}
	if _, err := s.store.GetUserByUsername(ctx, username); err == nil {
		return "", &domain.ValidationError{Reason: "username already registered"}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}
	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return "", &domain.ValidationError{Reason: "email already registered"}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}

	hash, err := s.creds.Hash(password)
	if err != nil {
		return "", err
	}
	u := domain.User{Username: username, FullName: fullName, Email: email, PasswordHash: hash}
	id, err := s.store.CreateUser(ctx, u)
	if err != nil {
		return "", err
	}
	u.ID = id

	token, _, err := s.tokens.Issue(u)
	return token, err
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.store.GetUserByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return "", domain.ErrUnauthorized
	}
	if err != nil {
		return "", err
	}
	if !s.creds.Verify(u.PasswordHash, password) {
		return "", domain.ErrUnauthorized
	}
	token, _, err := s.tokens.Issue(u)
	return token, err
}

func (s *AuthService) Me(ctx context.Context, userID int64) (domain.User, error) {
	return s.store.GetUser(ctx, userID)
}
