package user

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"cafe-backoffice/internal/domain"
	tokenrepo "cafe-backoffice/internal/repository/token"
)

const kindAccess = "access"

type tokenManager struct {
	repo tokenrepo.Repository
	now  func() time.Time
}

func newTokenManager(repo tokenrepo.Repository) *tokenManager {
	return &tokenManager{
		repo: repo,
		now:  time.Now,
	}
}

func (m *tokenManager) Issue(ctx context.Context, userID string, ttl time.Duration) (string, time.Time, error) {
	expiresAt := m.now().Add(ttl)
	for i := 0; i < 5; i++ {
		token, err := randomToken()
		if err != nil {
			return "", time.Time{}, err
		}
		err = m.repo.Create(ctx, tokenrepo.Token{
			Token:     token,
			UserID:    userID,
			Kind:      kindAccess,
			ExpiresAt: expiresAt,
		})
		if err == nil {
			return token, expiresAt, nil
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		return "", time.Time{}, err
	}
	return "", time.Time{}, errors.New("token collision")
}

// Validate returns the user id bound to a live access token. Expired tokens
// are removed on sight.
func (m *tokenManager) Validate(ctx context.Context, token string) (string, bool) {
	meta, err := m.repo.Get(ctx, token)
	if err != nil {
		return "", false
	}
	if meta.Kind != kindAccess || meta.UserID == "" {
		return "", false
	}
	if m.now().After(meta.ExpiresAt) {
		_ = m.repo.Delete(ctx, token)
		return "", false
	}
	return meta.UserID, true
}

func (m *tokenManager) Revoke(ctx context.Context, token string) error {
	return m.repo.Delete(ctx, token)
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
