package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"cafe-backoffice/internal/domain"
	"cafe-backoffice/internal/kvstore"
	"github.com/shopspring/decimal"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type idSource interface {
	NewID() (string, error)
}

// RowError reports a CSV row that could not be imported. Line is 1-based and
// counts the header.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// CSVImporter reads catalogue rows (id,name,category,miniPrice,regularPrice,image,description)
// and upserts them by id.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
	ids         idSource
}

func NewCSVImporter(r io.Reader, repo ProductWriter, ids idSource) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
		ids:         ids,
	}
}

// Run imports every valid row and returns how many were saved. Invalid rows
// are skipped and reported together as RowErrors; a store failure stops the run.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, required := range []string{"name", "regularprice"} {
		if _, ok := index[required]; !ok {
			return 0, fmt.Errorf("missing column %q", required)
		}
	}

	var (
		imported int
		rowErrs  []error
		line     = 1
	)
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		if blank(record) {
			continue
		}

		p, err := i.parseRow(record, index)
		if err != nil {
			rowErrs = append(rowErrs, &RowError{Line: line, Err: err})
			continue
		}
		if _, err := i.productRepo.Upsert(ctx, p); err != nil {
			if errors.Is(err, domain.ErrInvalidInput) {
				rowErrs = append(rowErrs, &RowError{Line: line, Err: err})
				continue
			}
			return imported, fmt.Errorf("upsert product %q: %w", p.ID, err)
		}
		imported++
	}
	return imported, errors.Join(rowErrs...)
}

func (i *CSVImporter) parseRow(record []string, index map[string]int) (domain.Product, error) {
	p := domain.Product{
		ID:          pick(record, index, "id"),
		Name:        pick(record, index, "name"),
		Category:    pick(record, index, "category"),
		Image:       pick(record, index, "image"),
		Description: pick(record, index, "description"),
	}
	regular, err := decimal.NewFromString(pick(record, index, "regularprice"))
	if err != nil {
		return domain.Product{}, fmt.Errorf("%w: regularPrice: %v", domain.ErrInvalidInput, err)
	}
	p.RegularPrice = regular
	if raw := pick(record, index, "miniprice"); raw != "" {
		mini, err := decimal.NewFromString(raw)
		if err != nil {
			return domain.Product{}, fmt.Errorf("%w: miniPrice: %v", domain.ErrInvalidInput, err)
		}
		p.MiniPrice = &mini
	}
	if p.ID == "" {
		id, err := i.ids.NewID()
		if err != nil {
			return domain.Product{}, domain.Remote("new id", "", err)
		}
		p.ID = id
	}
	if err := kvstore.Validate(p); err != nil {
		return domain.Product{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return p, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
