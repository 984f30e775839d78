package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cafe-backoffice/internal/domain"
	"cafe-backoffice/internal/kvstore"
	productrepo "cafe-backoffice/internal/repository/product"
)

type stubProductRepo struct {
	items []domain.Product
	err   error
}

func (s *stubProductRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.items = append(s.items, p)
	return &p, nil
}

type seqIDs struct{ n int }

func (s *seqIDs) NewID() (string, error) {
	s.n++
	return "gen-" + string(rune('0'+s.n)), nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `id,name,category,miniPrice,regularPrice,image,description
1,Honey Butter Waffle,WAFFLES,29,49,/img/honey.jpg,Golden waffle
,Red Velvet Waffle,PREMIUM SPECIALS,,99,,
,,,,,,
3,Nutella Waffle,CHOCOLATES & FLAVORS,39.50,69.00,,"Hazelnut, cocoa"`

	repo := &stubProductRepo{}
	imp := NewCSVImporter(strings.NewReader(csvData), repo, &seqIDs{})

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 3 || len(repo.items) != 3 {
		t.Fatalf("expected 3 products imported, got %d (%d saved)", count, len(repo.items))
	}

	first := repo.items[0]
	if first.ID != "1" || first.MiniPrice == nil || first.MiniPrice.String() != "29" || first.RegularPrice.String() != "49" {
		t.Fatalf("unexpected product data: %+v", first)
	}
	if repo.items[1].ID != "gen-1" {
		t.Fatalf("expected generated id, got %s", repo.items[1].ID)
	}
	if repo.items[1].HasMini() {
		t.Fatalf("expected no mini tier on second product")
	}
	if repo.items[2].Description != "Hazelnut, cocoa" || repo.items[2].MiniPrice.String() != "39.5" {
		t.Fatalf("unexpected third product: %+v", repo.items[2])
	}
}

func TestCSVImporter_ReportsBadRows(t *testing.T) {
	csvData := `name,regularPrice,miniPrice
Good Waffle,49,
No Price,abc,
Negative,-1,
Bad Mini,10,x
,20,`

	repo := &stubProductRepo{}
	count, err := NewCSVImporter(strings.NewReader(csvData), repo, &seqIDs{}).Run(context.Background())
	if count != 1 {
		t.Fatalf("expected 1 imported row, got %d", count)
	}
	if err == nil || !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected joined invalid input errors, got %v", err)
	}
	var rowErr *RowError
	if !errors.As(err, &rowErr) || rowErr.Line != 3 {
		t.Fatalf("expected first failing row on line 3, got %v", err)
	}
	if n := strings.Count(err.Error(), "line "); n != 4 {
		t.Fatalf("expected 4 row errors, got %d: %v", n, err)
	}
}

func TestCSVImporter_MissingColumns(t *testing.T) {
	_, err := NewCSVImporter(strings.NewReader("id,name\n1,Waffle\n"), &stubProductRepo{}, &seqIDs{}).Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "regularprice") {
		t.Fatalf("expected missing column error, got %v", err)
	}
}

func TestCSVImporter_StoreFailureStops(t *testing.T) {
	repo := &stubProductRepo{err: domain.Remote("set", "products", errors.New("timeout"))}
	_, err := NewCSVImporter(strings.NewReader("name,regularPrice\nA,1\nB,2\n"), repo, &seqIDs{}).Run(context.Background())
	if !errors.Is(err, domain.ErrRemote) {
		t.Fatalf("expected remote error, got %v", err)
	}
}

func TestCSVImporter_UpsertsByID(t *testing.T) {
	repo := productrepo.NewKV(kvstore.NewMemory(), nil)
	ctx := context.Background()
	for _, data := range []string{
		"id,name,regularPrice\n1,Waffle,49\n",
		"id,name,regularPrice\n1,Waffle,55\n",
	} {
		if _, err := NewCSVImporter(strings.NewReader(data), repo, &seqIDs{}).Run(ctx); err != nil {
			t.Fatalf("import: %v", err)
		}
	}
	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 || all[0].RegularPrice.String() != "55" {
		t.Fatalf("expected single upserted product at 55, got %+v", all)
	}
}
