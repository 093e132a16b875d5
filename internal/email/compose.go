// Package email composes the marketing newsletter from a selection of deals.
package email

import (
	"context"
	"time"

	"github.com/pauljones0/dealflow-hub/internal/models"
	"github.com/pauljones0/dealflow-hub/internal/util"
)

// SecondaryDescriptionLimit is the number of characters of a secondary deal's
// description kept in the email.
const SecondaryDescriptionLimit = 120

// DealGetter looks up deals by id.
type DealGetter interface {
	GetByID(ctx context.Context, id int64) (models.Deal, error)
}

// Brand holds the fixed copy of the header and footer.
type Brand struct {
	Name    string
	Tagline string
	Signoff string
}

// DefaultBrand is the storefront's own branding.
var DefaultBrand = Brand{
	Name:    "DealFlow Hub",
	Tagline: "Lifetime Software Deals",
	Signoff: "Happy deal hunting!",
}

type Header struct {
	Title   string `json:"title"`
	Tagline string `json:"tagline"`
}

type Footer struct {
	Signoff   string `json:"signoff"`
	Copyright string `json:"copyright"`
}

// Block is one deal as it appears in the email.
type Block struct {
	DealID        int64     `json:"dealId"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	ImageURL      string    `json:"imageUrl"`
	Link          string    `json:"link"`
	Merchant      string    `json:"merchant,omitempty"`
	DealPrice     string    `json:"dealPrice"`
	OriginalPrice string    `json:"originalPrice"`
	Discount      int64     `json:"discountPercentage"`
	ExpiryDate    time.Time `json:"expiryDate"`
}

// Document is the ordered structure of an email: header, optional main
// block, secondary blocks, footer.
type Document struct {
	Header      Header    `json:"header"`
	Main        *Block    `json:"main,omitempty"`
	Secondary   []Block   `json:"secondary"`
	Footer      Footer    `json:"footer"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Compose resolves the selection against deals and builds the document. An
// empty selection is a validation error.
func Compose(ctx context.Context, deals DealGetter, sel Selection, brand Brand, now time.Time) (Document, error) {
	if sel.Empty() {
		return Document{}, models.NewValidationError("selection", "Please select at least one deal")
	}

	doc := Document{
		Header:      Header{Title: brand.Name, Tagline: brand.Tagline},
		Secondary:   make([]Block, 0, len(sel.Secondary)),
		Footer:      Footer{Signoff: brand.Signoff, Copyright: copyright(brand.Name, now)},
		GeneratedAt: now,
	}

	if sel.Main != nil {
		d, err := deals.GetByID(ctx, *sel.Main)
		if err != nil {
			return Document{}, err
		}
		b := newBlock(d)
		doc.Main = &b
	}

	seen := make(map[int64]bool, len(sel.Secondary)+1)
	if sel.Main != nil {
		seen[*sel.Main] = true
	}
	for _, id := range sel.Secondary {
		if seen[id] {
			continue
		}
		seen[id] = true
		d, err := deals.GetByID(ctx, id)
		if err != nil {
			return Document{}, err
		}
		b := newBlock(d)
		b.Description = truncate(b.Description, SecondaryDescriptionLimit)
		doc.Secondary = append(doc.Secondary, b)
	}
	return doc, nil
}

func newBlock(d models.Deal) Block {
	return Block{
		DealID:        d.ID,
		Title:         d.Title,
		Description:   d.Description,
		Category:      d.Category,
		ImageURL:      d.ImageURL,
		Link:          d.AffiliateLink,
		Merchant:      util.GetDomain(d.AffiliateLink),
		DealPrice:     models.FormatPrice(d.DealPrice),
		OriginalPrice: models.FormatPrice(d.OriginalPrice),
		Discount:      d.DiscountPercentage(),
		ExpiryDate:    d.ExpiryDate,
	}
}

// truncate keeps the first limit characters of s and marks the cut with "...".
func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}

func copyright(name string, now time.Time) string {
	return "© " + now.Format("2006") + " " + name + ". All rights reserved."
}
