package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"log"
	"strings"

	"cafe-backoffice/internal/domain"
	"cafe-backoffice/internal/kvstore"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed catalogue.yaml
var defaultCatalogue []byte

type catalogueFile struct {
	Products []catalogueEntry `yaml:"products"`
}

type catalogueEntry struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Category     string `yaml:"category"`
	MiniPrice    string `yaml:"miniPrice"`
	RegularPrice string `yaml:"regularPrice"`
	Image        string `yaml:"image"`
	Description  string `yaml:"description"`
}

// DefaultCatalogue returns the built-in menu.
func DefaultCatalogue() ([]domain.Product, error) {
	return ParseCatalogue(bytes.NewReader(defaultCatalogue))
}

// ParseCatalogue reads a YAML catalogue and validates every entry.
func ParseCatalogue(r io.Reader) ([]domain.Product, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f catalogueFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode catalogue: %w", err)
	}
	seen := make(map[string]struct{}, len(f.Products))
	out := make([]domain.Product, 0, len(f.Products))
	for i, e := range f.Products {
		p, err := e.product()
		if err != nil {
			return nil, fmt.Errorf("catalogue entry %d: %w", i, err)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("catalogue entry %d: duplicate id %q", i, p.ID)
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}

func (e catalogueEntry) product() (domain.Product, error) {
	p := domain.Product{
		ID:          strings.TrimSpace(e.ID),
		Name:        strings.TrimSpace(e.Name),
		Category:    strings.TrimSpace(e.Category),
		Image:       e.Image,
		Description: e.Description,
	}
	regular, err := decimal.NewFromString(e.RegularPrice)
	if err != nil {
		return domain.Product{}, fmt.Errorf("regularPrice: %w", err)
	}
	p.RegularPrice = regular
	if e.MiniPrice != "" {
		mini, err := decimal.NewFromString(e.MiniPrice)
		if err != nil {
			return domain.Product{}, fmt.Errorf("miniPrice: %w", err)
		}
		p.MiniPrice = &mini
	}
	if err := kvstore.Validate(p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

type catalogueStore interface {
	Exists(ctx context.Context) (bool, error)
	ReplaceAll(ctx context.Context, products []domain.Product) error
}

// EnsureCatalogue writes products only when the products document is absent.
// An existing document, even an empty one, is left alone.
func EnsureCatalogue(ctx context.Context, repo catalogueStore, products []domain.Product, logger *log.Logger) (bool, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	exists, err := repo.Exists(ctx)
	if err != nil {
		return false, err
	}
	if exists {
		logger.Printf("seed: products present, skipping catalogue")
		return false, nil
	}
	if err := repo.ReplaceAll(ctx, products); err != nil {
		return false, fmt.Errorf("write catalogue: %w", err)
	}
	logger.Printf("seed: wrote %d default products", len(products))
	return true, nil
}

type adminEnsurer interface {
	EnsureAdmin(ctx context.Context, email, password string) (*domain.User, bool, error)
}

// EnsureAdmin bootstraps the admin account. It is a no-op when email is empty.
func EnsureAdmin(ctx context.Context, users adminEnsurer, email, password string, logger *log.Logger) error {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if strings.TrimSpace(email) == "" {
		logger.Printf("seed: ADMIN_EMAIL not set, skipping admin bootstrap")
		return nil
	}
	u, changed, err := users.EnsureAdmin(ctx, email, password)
	if err != nil {
		return fmt.Errorf("ensure admin %s: %w", email, err)
	}
	if changed {
		logger.Printf("seed: admin ready id=%s email=%s", u.ID, u.Email)
	}
	return nil
}
