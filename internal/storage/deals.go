package storage

import (
	"context"
	"sync"

	"github.com/pauljones0/dealflow-hub/internal/models"
)

// DealStore is the authoritative in-memory collection of deals.
type DealStore struct {
	t table[models.Deal]

	updMu        sync.Mutex
	lastUpdateID int64
}

// NewDealStore returns a store seeded with copies of seed, in order.
func NewDealStore(seed []models.Deal, opts ...Option) *DealStore {
	s := &DealStore{
		t: table[models.Deal]{
			entity: "deal",
			id:     func(d *models.Deal) int64 { return d.ID },
			setID:  func(d *models.Deal, id int64) { d.ID = id },
			clone:  models.Deal.Clone,
			opts:   buildOptions(opts),
		},
	}
	s.t.seed(seed)
	for _, d := range seed {
		for _, u := range d.Updates {
			if u.ID > s.lastUpdateID {
				s.lastUpdateID = u.ID
			}
		}
	}
	return s
}

// GetAll returns every deal in insertion order.
func (s *DealStore) GetAll(ctx context.Context) ([]models.Deal, error) {
	return s.t.list(ctx, nil)
}

func (s *DealStore) GetByID(ctx context.Context, id int64) (models.Deal, error) {
	return s.t.get(ctx, id)
}

// Create appends d with the next id, zero votes, no updates and the current
// time as its posted date.
func (s *DealStore) Create(ctx context.Context, d models.Deal) (models.Deal, error) {
	now := s.t.opts.now()
	return s.t.insert(ctx, d, func(rec *models.Deal) {
		rec.Votes = 0
		rec.PostedDate = now
		rec.Updates = []models.DealUpdate{}
	})
}

// Update merges patch onto deal id. The id never changes.
func (s *DealStore) Update(ctx context.Context, id int64, patch models.DealPatch) (models.Deal, error) {
	return s.t.mutate(ctx, id, func(d *models.Deal) error {
		*d = patch.Apply(*d)
		return nil
	})
}

// UpdateFunc builds a patch from the current state of deal id and applies it
// in the same step, so the patch never works from a stale read.
func (s *DealStore) UpdateFunc(ctx context.Context, id int64, fn func(current models.Deal) (models.DealPatch, error)) (models.Deal, error) {
	return s.t.mutate(ctx, id, func(d *models.Deal) error {
		patch, err := fn(d.Clone())
		if err != nil {
			return err
		}
		*d = patch.Apply(*d)
		return nil
	})
}

// Delete removes deal id and returns it.
func (s *DealStore) Delete(ctx context.Context, id int64) (models.Deal, error) {
	return s.t.remove(ctx, id)
}

// Vote adds exactly one vote to deal id.
func (s *DealStore) Vote(ctx context.Context, id int64) (models.Deal, error) {
	return s.t.mutate(ctx, id, func(d *models.Deal) error {
		d.Votes++
		return nil
	})
}

// AddUpdate prepends a new dated note to deal id.
func (s *DealStore) AddUpdate(ctx context.Context, id int64, content string) (models.Deal, error) {
	return s.t.mutate(ctx, id, func(d *models.Deal) error {
		now := s.t.opts.now()
		u := models.DealUpdate{ID: s.nextUpdateID(now.UnixMilli()), Content: content, Timestamp: now}
		d.Updates = append([]models.DealUpdate{u}, d.Updates...)
		return nil
	})
}

// Ignore marks deal id as swiped away.
func (s *DealStore) Ignore(ctx context.Context, id int64) (models.Deal, error) {
	return s.t.mutate(ctx, id, func(d *models.Deal) error {
		now := s.t.opts.now()
		d.Ignored = true
		d.IgnoredDate = &now
		return nil
	})
}

// AddToFavorites marks deal id as favorited.
func (s *DealStore) AddToFavorites(ctx context.Context, id int64) (models.Deal, error) {
	return s.t.mutate(ctx, id, func(d *models.Deal) error {
		now := s.t.opts.now()
		d.Favorited = true
		d.FavoritedDate = &now
		return nil
	})
}

// nextUpdateID is time based like the ids clients used to mint, but strictly
// increasing so two updates in the same millisecond never collide.
func (s *DealStore) nextUpdateID(candidate int64) int64 {
	s.updMu.Lock()
	defer s.updMu.Unlock()
	if candidate <= s.lastUpdateID {
		candidate = s.lastUpdateID + 1
	}
	s.lastUpdateID = candidate
	return candidate
}
