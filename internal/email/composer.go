package email

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pauljones0/dealflow-hub/internal/metrics"
	"github.com/pauljones0/dealflow-hub/internal/models"
)

// Draft is a selection under construction, kept until it is deleted.
type Draft struct {
	ID        uuid.UUID `json:"id"`
	Selection Selection `json:"selection"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Rendered is a composed email in every output form.
type Rendered struct {
	Document Document `json:"document"`
	HTML     string   `json:"html"`
	Text     string   `json:"text"`
}

// Composer keeps email drafts and renders them against the live deals.
type Composer struct {
	deals DealGetter
	brand Brand
	now   func() time.Time

	mu     sync.Mutex
	drafts map[uuid.UUID]*Draft
}

func NewComposer(deals DealGetter, brand Brand, now func() time.Time) *Composer {
	if now == nil {
		now = time.Now
	}
	return &Composer{
		deals:  deals,
		brand:  brand,
		now:    now,
		drafts: make(map[uuid.UUID]*Draft),
	}
}

func errDraftNotFound(id uuid.UUID) error {
	return fmt.Errorf("email draft %s: %w", id, models.ErrNotFound)
}

func (c *Composer) NewDraft() Draft {
	now := c.now()
	d := &Draft{
		ID:        uuid.New(),
		Selection: Selection{Secondary: []int64{}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.mu.Lock()
	c.drafts[d.ID] = d
	c.mu.Unlock()
	return d.clone()
}

func (c *Composer) Draft(id uuid.UUID) (Draft, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.drafts[id]
	if !ok {
		return Draft{}, errDraftNotFound(id)
	}
	return d.clone(), nil
}

func (c *Composer) DeleteDraft(id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.drafts[id]; !ok {
		return errDraftNotFound(id)
	}
	delete(c.drafts, id)
	return nil
}

// SetMain makes dealID the main deal of draft id. The deal must exist.
func (c *Composer) SetMain(ctx context.Context, id uuid.UUID, dealID int64) (Draft, error) {
	if _, err := c.deals.GetByID(ctx, dealID); err != nil {
		return Draft{}, err
	}
	return c.edit(id, func(s *Selection) { s.SetMain(dealID) })
}

func (c *Composer) ClearMain(id uuid.UUID) (Draft, error) {
	return c.edit(id, func(s *Selection) { s.ClearMain() })
}

// ToggleSecondary adds dealID to or removes it from the secondary deals of
// draft id. Only additions require the deal to exist.
func (c *Composer) ToggleSecondary(ctx context.Context, id uuid.UUID, dealID int64) (Draft, error) {
	d, err := c.Draft(id)
	if err != nil {
		return Draft{}, err
	}
	if !slices.Contains(d.Selection.Secondary, dealID) {
		if _, err := c.deals.GetByID(ctx, dealID); err != nil {
			return Draft{}, err
		}
	}
	return c.edit(id, func(s *Selection) { s.ToggleSecondary(dealID) })
}

// RemoveDeal drops dealID from every draft.
func (c *Composer) RemoveDeal(dealID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range c.drafts {
		d.Selection.Remove(dealID)
	}
}

// Render composes draft id and renders it as HTML and plain text.
func (c *Composer) Render(ctx context.Context, id uuid.UUID) (Rendered, error) {
	d, err := c.Draft(id)
	if err != nil {
		return Rendered{}, err
	}
	return c.RenderSelection(ctx, d.Selection)
}

// RenderSelection composes and renders sel without storing it.
func (c *Composer) RenderSelection(ctx context.Context, sel Selection) (Rendered, error) {
	doc, err := Compose(ctx, c.deals, sel, c.brand, c.now())
	if err != nil {
		return Rendered{}, err
	}
	html, err := RenderHTML(doc)
	if err != nil {
		return Rendered{}, err
	}
	text, err := PlainText(html)
	if err != nil {
		return Rendered{}, err
	}
	metrics.EmailRenders.Inc()
	return Rendered{Document: doc, HTML: html, Text: text}, nil
}

func (c *Composer) edit(id uuid.UUID, fn func(*Selection)) (Draft, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.drafts[id]
	if !ok {
		return Draft{}, errDraftNotFound(id)
	}
	fn(&d.Selection)
	d.UpdatedAt = c.now()
	return d.clone(), nil
}

func (d *Draft) clone() Draft {
	out := *d
	out.Selection = d.Selection.Clone()
	return out
}
