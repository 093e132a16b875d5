package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the publication state of a deal.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// DealUpdate is a dated note attached to a deal by its maintainers.
type DealUpdate struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Deal represents a time-boxed discounted software offer.
type Deal struct {
	ID            int64           `json:"id"`
	Title         string          `json:"title" validate:"required"`
	Description   string          `json:"description" validate:"required"`
	Category      string          `json:"category" validate:"required"`
	ImageURL      string          `json:"imageUrl" validate:"required,url"`
	AffiliateLink string          `json:"affiliateLink" validate:"required,url"`
	OriginalPrice decimal.Decimal `json:"originalPrice" validate:"gt=0"`
	DealPrice     decimal.Decimal `json:"dealPrice" validate:"gt=0"`
	Status        Status          `json:"status" validate:"oneof=active inactive"`
	Featured      bool            `json:"featured"`
	Votes         int             `json:"votes" validate:"gte=0"`
	PostedDate    time.Time       `json:"postedDate"`
	ExpiryDate    time.Time       `json:"expiryDate" validate:"required"`
	Updates       []DealUpdate    `json:"updates"`

	// Swipe triage flags. Not mutually exclusive.
	Ignored       bool       `json:"ignored,omitempty"`
	IgnoredDate   *time.Time `json:"ignoredDate,omitempty"`
	Favorited     bool       `json:"favorited,omitempty"`
	FavoritedDate *time.Time `json:"favoritedDate,omitempty"`
}

// DiscountPercentage returns round((1 - dealPrice/originalPrice) * 100).
func (d Deal) DiscountPercentage() int64 {
	return Discount(d.OriginalPrice, d.DealPrice)
}

// Discount computes the rounded percentage saved going from original to price.
func Discount(original, price decimal.Decimal) int64 {
	if !original.IsPositive() {
		return 0
	}
	ratio := price.DivRound(original, 8)
	return decimal.NewFromInt(1).Sub(ratio).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// FormatPrice renders a price in dollars, dropping the cents of whole amounts.
func FormatPrice(d decimal.Decimal) string {
	if d.IsInteger() {
		return "$" + d.String()
	}
	return "$" + d.StringFixed(2)
}

// Clone returns a deep copy so callers can never alias store-owned state.
func (d Deal) Clone() Deal {
	c := d
	if d.Updates != nil {
		c.Updates = make([]DealUpdate, len(d.Updates))
		copy(c.Updates, d.Updates)
	}
	if d.IgnoredDate != nil {
		t := *d.IgnoredDate
		c.IgnoredDate = &t
	}
	if d.FavoritedDate != nil {
		t := *d.FavoritedDate
		c.FavoritedDate = &t
	}
	return c
}

func (d Deal) MarshalJSON() ([]byte, error) {
	type alias Deal
	return json.Marshal(struct {
		alias
		DiscountPercentage int64 `json:"discountPercentage"`
	}{alias(d), d.DiscountPercentage()})
}

// DealSubmission is the payload of the public "submit a deal" form.
type DealSubmission struct {
	Title         string          `json:"title" validate:"required"`
	Description   string          `json:"description" validate:"required"`
	Category      string          `json:"category" validate:"required"`
	ImageURL      string          `json:"imageUrl" validate:"required,url"`
	AffiliateLink string          `json:"affiliateLink" validate:"required,url"`
	OriginalPrice decimal.Decimal `json:"originalPrice" validate:"gt=0"`
	DealPrice     decimal.Decimal `json:"dealPrice" validate:"gt=0"`
	ExpiryDate    time.Time       `json:"expiryDate" validate:"required"`
}

// Normalize trims surrounding whitespace from the free-text fields.
func (s *DealSubmission) Normalize() {
	s.Title = strings.TrimSpace(s.Title)
	s.Description = strings.TrimSpace(s.Description)
	s.Category = strings.TrimSpace(s.Category)
	s.ImageURL = strings.TrimSpace(s.ImageURL)
	s.AffiliateLink = strings.TrimSpace(s.AffiliateLink)
}

// ToDeal builds the record a submission starts life as: inactive and not featured.
func (s DealSubmission) ToDeal() Deal {
	return Deal{
		Title:         s.Title,
		Description:   s.Description,
		Category:      s.Category,
		ImageURL:      s.ImageURL,
		AffiliateLink: s.AffiliateLink,
		OriginalPrice: s.OriginalPrice,
		DealPrice:     s.DealPrice,
		Status:        StatusInactive,
		Featured:      false,
		ExpiryDate:    s.ExpiryDate,
	}
}

// DealPatch lists every field an administrator may change on a deal.
// A nil field is left untouched.
type DealPatch struct {
	// ID is accepted for compatibility with clients that echo whole records
	// back, but is never applied.
	ID            *int64           `json:"id,omitempty"`
	Title         *string          `json:"title,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Category      *string          `json:"category,omitempty"`
	ImageURL      *string          `json:"imageUrl,omitempty"`
	AffiliateLink *string          `json:"affiliateLink,omitempty"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	DealPrice     *decimal.Decimal `json:"dealPrice,omitempty"`
	Status        *Status          `json:"status,omitempty"`
	Featured      *bool            `json:"featured,omitempty"`
	ExpiryDate    *time.Time       `json:"expiryDate,omitempty"`
}

// Apply merges the patch onto a copy of d. The id of d is always kept.
func (p DealPatch) Apply(d Deal) Deal {
	out := d.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Category != nil {
		out.Category = *p.Category
	}
	if p.ImageURL != nil {
		out.ImageURL = *p.ImageURL
	}
	if p.AffiliateLink != nil {
		out.AffiliateLink = *p.AffiliateLink
	}
	if p.OriginalPrice != nil {
		out.OriginalPrice = *p.OriginalPrice
	}
	if p.DealPrice != nil {
		out.DealPrice = *p.DealPrice
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.Featured != nil {
		out.Featured = *p.Featured
	}
	if p.ExpiryDate != nil {
		out.ExpiryDate = *p.ExpiryDate
	}
	out.ID = d.ID
	return out
}

// Column identifies a lane of the admin kanban board.
type Column string

const (
	ColumnInactive Column = "inactive"
	ColumnActive   Column = "active"
	ColumnFeatured Column = "featured"
)

// Columns lists the board lanes in display order.
var Columns = []Column{ColumnInactive, ColumnActive, ColumnFeatured}

func (c Column) Valid() bool {
	return c == ColumnInactive || c == ColumnActive || c == ColumnFeatured
}
