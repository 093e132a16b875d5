package email

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/pauljones0/dealflow-hub/internal/models"
)

type fakeDeals map[int64]models.Deal

func (f fakeDeals) GetByID(_ context.Context, id int64) (models.Deal, error) {
	d, ok := f[id]
	if !ok {
		return models.Deal{}, models.NotFound("deal", id)
	}
	return d, nil
}

var testNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func testDeals() fakeDeals {
	return fakeDeals{
		1: {
			ID:            1,
			Title:         "CloudSync Pro",
			Description:   "Unlimited sync across all your devices.",
			Category:      "Productivity",
			ImageURL:      "https://images.example.com/cloudsync.png",
			AffiliateLink: "https://www.cloudsync.co.uk/deal",
			OriginalPrice: decimal.NewFromInt(299),
			DealPrice:     decimal.NewFromInt(49),
			ExpiryDate:    time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
			Status:        models.StatusActive,
		},
		2: {
			ID:            2,
			Title:         "PixelForge",
			Description:   strings.Repeat("a", 130),
			Category:      "Design",
			ImageURL:      "https://images.example.com/pixelforge.png",
			AffiliateLink: "https://pixelforge.example.com/buy",
			OriginalPrice: decimal.NewFromInt(100),
			DealPrice:     decimal.RequireFromString("19.50"),
			ExpiryDate:    time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC),
			Status:        models.StatusActive,
		},
		3: {
			ID:            3,
			Title:         "Short Notes",
			Description:   "Tiny.",
			Category:      "Productivity",
			AffiliateLink: "https://notes.example.org/",
			OriginalPrice: decimal.NewFromInt(20),
			DealPrice:     decimal.NewFromInt(10),
			Status:        models.StatusInactive,
		},
	}
}

func TestCompose_EmptySelection(t *testing.T) {
	_, err := Compose(context.Background(), testDeals(), Selection{}, DefaultBrand, testNow)
	var ve *models.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Compose() error = %v, want validation error", err)
	}
	if ve.Fields["selection"] == "" {
		t.Errorf("missing selection message: %v", ve.Fields)
	}
}

func TestCompose_MainAndSecondary(t *testing.T) {
	sel := Selection{Main: ptr(1), Secondary: []int64{2, 3}}
	doc, err := Compose(context.Background(), testDeals(), sel, DefaultBrand, testNow)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	if doc.Header.Title != "DealFlow Hub" || doc.Header.Tagline != "Lifetime Software Deals" {
		t.Errorf("header = %+v", doc.Header)
	}
	if doc.Footer.Copyright != "© 2026 DealFlow Hub. All rights reserved." {
		t.Errorf("copyright = %q", doc.Footer.Copyright)
	}

	if doc.Main == nil {
		t.Fatal("expected main block")
	}
	if doc.Main.DealPrice != "$49" || doc.Main.OriginalPrice != "$299" || doc.Main.Discount != 84 {
		t.Errorf("main prices = %s %s %d%%", doc.Main.DealPrice, doc.Main.OriginalPrice, doc.Main.Discount)
	}
	if doc.Main.Merchant != "cloudsync.co.uk" {
		t.Errorf("main merchant = %q", doc.Main.Merchant)
	}
	if doc.Main.Description != "Unlimited sync across all your devices." {
		t.Errorf("main description was altered: %q", doc.Main.Description)
	}

	if len(doc.Secondary) != 2 {
		t.Fatalf("len(Secondary) = %d, want 2", len(doc.Secondary))
	}
	long := doc.Secondary[0]
	if long.DealID != 2 || long.DealPrice != "$19.50" {
		t.Errorf("secondary[0] = %+v", long)
	}
	if want := strings.Repeat("a", SecondaryDescriptionLimit) + "..."; long.Description != want {
		t.Errorf("secondary description = %q, want truncated", long.Description)
	}
	if doc.Secondary[1].Description != "Tiny." {
		t.Errorf("short description = %q, want unchanged", doc.Secondary[1].Description)
	}
}

func TestCompose_SecondaryOnly(t *testing.T) {
	doc, err := Compose(context.Background(), testDeals(), Selection{Secondary: []int64{3}}, DefaultBrand, testNow)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if doc.Main != nil {
		t.Errorf("Main = %+v, want nil", doc.Main)
	}
	if len(doc.Secondary) != 1 {
		t.Errorf("len(Secondary) = %d", len(doc.Secondary))
	}
}

func TestCompose_DuplicateIDs(t *testing.T) {
	tests := []struct {
		name     string
		sel      Selection
		wantMain bool
		wantIDs  []int64
	}{
		{"repeated secondary", Selection{Secondary: []int64{2, 2}}, false, []int64{2}},
		{"main repeated in secondary", Selection{Main: ptr(1), Secondary: []int64{1, 3, 1}}, true, []int64{3}},
		{"interleaved repeats", Selection{Secondary: []int64{3, 2, 3, 2}}, false, []int64{3, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Compose(context.Background(), testDeals(), tt.sel, DefaultBrand, testNow)
			if err != nil {
				t.Fatalf("Compose() error = %v", err)
			}
			if (doc.Main != nil) != tt.wantMain {
				t.Errorf("Main = %+v, want present %v", doc.Main, tt.wantMain)
			}
			var got []int64
			for _, b := range doc.Secondary {
				got = append(got, b.DealID)
			}
			if diff := cmp.Diff(tt.wantIDs, got); diff != "" {
				t.Errorf("secondary ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompose_MissingDeal(t *testing.T) {
	_, err := Compose(context.Background(), testDeals(), Selection{Secondary: []int64{1, 42}}, DefaultBrand, testNow)
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Compose() error = %v, want ErrNotFound", err)
	}
}

func TestTruncate_Runes(t *testing.T) {
	s := strings.Repeat("é", 5)
	if got := truncate(s, 3); got != "ééé..." {
		t.Errorf("truncate() = %q", got)
	}
	if got := truncate(s, 5); got != s {
		t.Errorf("truncate() at limit = %q", got)
	}
}
