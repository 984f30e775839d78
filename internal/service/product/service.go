package product

import (
	"context"
	"fmt"
	"strings"

	"cafe-backoffice/internal/domain"
	"cafe-backoffice/internal/identity"
	"cafe-backoffice/internal/kvstore"
	productrepo "cafe-backoffice/internal/repository/product"
	"github.com/shopspring/decimal"
)

type Service struct {
	repo productrepo.Repository
	ids  identity.Provider
}

func New(repo productrepo.Repository, ids identity.Provider) *Service {
	return &Service{repo: repo, ids: ids}
}

// ListFilter narrows the catalogue. Empty fields match everything.
type ListFilter struct {
	Category string
	Query    string
}

// Input carries the editable product fields.
type Input struct {
	Name         string           `json:"name"`
	Category     string           `json:"category"`
	MiniPrice    *decimal.Decimal `json:"miniPrice,omitempty"`
	RegularPrice decimal.Decimal  `json:"regularPrice"`
	Image        string           `json:"image,omitempty"`
	Description  string           `json:"description,omitempty"`
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if !containsIgnoreCase(p.Name, f.Query) && !containsIgnoreCase(p.Category, f.Query) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (*domain.Product, error) {
	id, err := s.ids.NewID()
	if err != nil {
		return nil, domain.Remote("new id", "", err)
	}
	p, err := build(id, in)
	if err != nil {
		return nil, err
	}
	return s.repo.Upsert(ctx, p)
}

func (s *Service) Update(ctx context.Context, id string, in Input) (*domain.Product, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	p, err := build(id, in)
	if err != nil {
		return nil, err
	}
	return s.repo.Upsert(ctx, p)
}

// Delete removes a product. Historical orders keep their own snapshot.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Categories returns distinct category names in catalogue order.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var out []string
	for _, p := range products {
		if _, ok := seen[p.Category]; ok || p.Category == "" {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out, nil
}

func build(id string, in Input) (domain.Product, error) {
	p := domain.Product{
		ID:           id,
		Name:         strings.TrimSpace(in.Name),
		Category:     strings.TrimSpace(in.Category),
		MiniPrice:    in.MiniPrice,
		RegularPrice: in.RegularPrice,
		Image:        strings.TrimSpace(in.Image),
		Description:  strings.TrimSpace(in.Description),
	}
	if err := kvstore.Validate(p); err != nil {
		return domain.Product{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return p, nil
}

func containsIgnoreCase(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
