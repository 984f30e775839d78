package category

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"cafe-backoffice/internal/domain"
	"cafe-backoffice/internal/repository/category"
	"cafe-backoffice/internal/repository/product"
)

// Service manages category names. A category exists if it is stored in the
// categories document or if any product references it.
type Service struct {
	repo     category.Repository
	products product.Repository
}

func New(repo category.Repository, products product.Repository) *Service {
	return &Service{repo: repo, products: products}
}

// List returns stored categories first, then product-only ones, each with
// the number of products that reference it.
func (s *Service) List(ctx context.Context) ([]domain.Category, error) {
	stored, products, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	var order []string
	seen := make(map[string]struct{})
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		order = append(order, name)
	}
	for _, name := range stored {
		add(name)
	}
	for _, p := range products {
		add(p.Category)
		counts[p.Category]++
	}
	out := make([]domain.Category, 0, len(order))
	for _, name := range order {
		out = append(out, domain.Category{Name: name, ProductCount: counts[name]})
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name required", domain.ErrInvalidInput)
	}
	stored, products, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if exists(name, stored, products) {
		return nil, domain.ErrAlreadyExists
	}
	if err := s.repo.Save(ctx, append(stored, name)); err != nil {
		return nil, err
	}
	return &domain.Category{Name: name}, nil
}

// Rename moves every product in oldName to newName and updates the stored list.
func (s *Service) Rename(ctx context.Context, oldName, newName string) (*domain.Category, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, fmt.Errorf("%w: category name required", domain.ErrInvalidInput)
	}
	stored, products, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if !exists(oldName, stored, products) {
		return nil, domain.ErrNotFound
	}
	if newName != oldName && exists(newName, stored, products) {
		return nil, domain.ErrAlreadyExists
	}

	count := 0
	for i := range products {
		if products[i].Category == oldName {
			products[i].Category = newName
			count++
		}
	}

	// Stored list first; a failed product rewrite puts it back.
	prev := slices.Clone(stored)
	listed := false
	if i := slices.Index(stored, oldName); i >= 0 {
		stored[i] = newName
		if err := s.repo.Save(ctx, stored); err != nil {
			return nil, err
		}
		listed = true
	}
	if count > 0 {
		if err := s.products.ReplaceAll(ctx, products); err != nil {
			if listed {
				if rerr := s.repo.Save(ctx, prev); rerr != nil {
					return nil, errors.Join(err, fmt.Errorf("restore categories: %w", rerr))
				}
			}
			return nil, err
		}
	}
	return &domain.Category{Name: newName, ProductCount: count}, nil
}

func (s *Service) Delete(ctx context.Context, name string) error {
	stored, products, err := s.load(ctx)
	if err != nil {
		return err
	}
	if !exists(name, stored, products) {
		return domain.ErrNotFound
	}
	for _, p := range products {
		if p.Category == name {
			return domain.ErrCategoryInUse
		}
	}
	return s.repo.Save(ctx, slices.DeleteFunc(stored, func(n string) bool { return n == name }))
}

func (s *Service) load(ctx context.Context) ([]string, []domain.Product, error) {
	stored, err := s.repo.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	return stored, products, nil
}

func exists(name string, stored []string, products []domain.Product) bool {
	if slices.Contains(stored, name) {
		return true
	}
	for _, p := range products {
		if p.Category == name {
			return true
		}
	}
	return false
}
