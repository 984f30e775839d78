package user

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"cafe-backoffice/internal/domain"
	tokenrepo "cafe-backoffice/internal/repository/token"
	userrepo "cafe-backoffice/internal/repository/user"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = fmt.Errorf("invalid token: %w", domain.ErrUnauthorized)
)

// Service handles back-office accounts, roles and sessions.
type Service struct {
	repo        userrepo.Repository
	tokens      *tokenManager
	tokenTTL    time.Duration
	passwordMin int
	// bootstrap admin; it cannot lose the admin role or be deleted
	protectedEmail string
}

func New(repo userrepo.Repository, tokens tokenrepo.Repository, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = 12 * time.Hour
	}
	return &Service{
		repo:        repo,
		tokens:      newTokenManager(tokens),
		tokenTTL:    tokenTTL,
		passwordMin: 8,
	}
}

type CreateInput struct {
	Email    string        `json:"email"`
	Password string        `json:"password"`
	Username string        `json:"username"`
	FullName string        `json:"fullName"`
	Roles    []domain.Role `json:"roles"`
}

// UpdateInput changes only the fields that are set.
type UpdateInput struct {
	Username *string       `json:"username,omitempty"`
	FullName *string       `json:"fullName,omitempty"`
	Password *string       `json:"password,omitempty"`
	Roles    []domain.Role `json:"roles,omitempty"`
}

// Session is the result of a successful login.
type Session struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: valid email required", domain.ErrInvalidInput)
	}
	hashed, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	roles, err := normalizeRoles(in.Roles)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, domain.User{
		Email:        email,
		Username:     strings.TrimSpace(in.Username),
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: hashed,
		Roles:        roles,
	})
}

// Login validates credentials and issues an access token.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(strings.TrimSpace(password))); err != nil {
		return nil, ErrInvalidCredentials
	}
	token, expiresAt, err := s.tokens.Issue(ctx, u.ID, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &Session{User: u, Token: token, ExpiresAt: expiresAt}, nil
}

// LookupByToken returns the user bound to a valid access token.
func (s *Service) LookupByToken(ctx context.Context, token string) (*domain.User, error) {
	userID, ok := s.tokens.Validate(ctx, token)
	if !ok {
		return nil, ErrInvalidToken
	}
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.tokens.Revoke(ctx, token); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*domain.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Username != nil {
		u.Username = strings.TrimSpace(*in.Username)
	}
	if in.FullName != nil {
		u.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.Password != nil {
		hashed, err := s.hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hashed
	}
	if in.Roles != nil {
		roles, err := normalizeRoles(in.Roles)
		if err != nil {
			return nil, err
		}
		if s.isProtected(u) && !slices.Contains(roles, domain.RoleAdmin) {
			return nil, fmt.Errorf("%w: cannot change the role of the permanent admin account", domain.ErrForbidden)
		}
		u.Roles = roles
	}
	return s.repo.Update(ctx, *u)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s.isProtected(u) {
		return fmt.Errorf("%w: cannot delete the permanent admin account", domain.ErrForbidden)
	}
	return s.repo.Delete(ctx, id)
}

// EnsureAdmin creates the bootstrap admin, or grants the admin role to an
// existing account with that email. It reports whether anything changed.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) (*domain.User, bool, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	s.protectedEmail = email
	u, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if u.HasRole(domain.RoleAdmin) {
			return u, false, nil
		}
		u.Roles = append(u.Roles, domain.RoleAdmin)
		u, err = s.repo.Update(ctx, *u)
		return u, err == nil, err
	case errors.Is(err, domain.ErrNotFound):
		u, err = s.Create(ctx, CreateInput{Email: email, Password: password, Username: "admin", Roles: []domain.Role{domain.RoleAdmin}})
		return u, err == nil, err
	default:
		return nil, false, err
	}
}

func (s *Service) isProtected(u *domain.User) bool {
	return s.protectedEmail != "" && strings.EqualFold(u.Email, s.protectedEmail)
}

// TokenTTLSeconds exposes the access token lifetime in seconds.
func (s *Service) TokenTTLSeconds() int {
	return int(s.tokenTTL.Seconds())
}

func (s *Service) hashPassword(p string) (string, error) {
	p = strings.TrimSpace(p)
	if err := validatePassword(p, s.passwordMin); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(p), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// normalizeRoles drops duplicates and defaults an empty set to the user role.
func normalizeRoles(in []domain.Role) ([]domain.Role, error) {
	if len(in) == 0 {
		return []domain.Role{domain.RoleUser}, nil
	}
	out := make([]domain.Role, 0, len(in))
	for _, r := range in {
		r = domain.Role(strings.ToLower(strings.TrimSpace(string(r))))
		if !r.Valid() {
			return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, r)
		}
		dup := false
		for _, have := range out {
			if have == r {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, r)
		}
	}
	return out, nil
}

func validatePassword(p string, min int) error {
	if len(p) < min {
		return fmt.Errorf("password must be at least %d characters", min)
	}
	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, r := range p {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return errors.New("password must contain at least 1 uppercase letter, 1 lowercase letter, and 1 number")
	}
	return nil
}
