package storage

import (
	"context"
	"sort"

	"github.com/pauljones0/dealflow-hub/internal/models"
)

// BannerStore holds the promotional banners shown around the storefront.
type BannerStore struct {
	t table[models.Banner]
}

func NewBannerStore(seed []models.Banner, opts ...Option) *BannerStore {
	s := &BannerStore{
		t: table[models.Banner]{
			entity: "banner",
			id:     func(b *models.Banner) int64 { return b.ID },
			setID:  func(b *models.Banner, id int64) { b.ID = id },
			clone:  func(b models.Banner) models.Banner { return b },
			opts:   buildOptions(opts),
		},
	}
	s.t.seed(seed)
	return s
}

func (s *BannerStore) GetAll(ctx context.Context) ([]models.Banner, error) {
	return s.t.list(ctx, nil)
}

func (s *BannerStore) GetByID(ctx context.Context, id int64) (models.Banner, error) {
	return s.t.get(ctx, id)
}

// GetByPosition returns the active banners for a slot, lowest priority value
// first. Banners with equal priority keep their stored order.
func (s *BannerStore) GetByPosition(ctx context.Context, position string) ([]models.Banner, error) {
	out, err := s.t.list(ctx, func(b *models.Banner) bool {
		return b.Active && b.Position == position
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out, nil
}

func (s *BannerStore) Create(ctx context.Context, b models.Banner) (models.Banner, error) {
	return s.t.insert(ctx, b, nil)
}

func (s *BannerStore) Update(ctx context.Context, id int64, patch models.BannerPatch) (models.Banner, error) {
	return s.t.mutate(ctx, id, func(b *models.Banner) error {
		*b = patch.Apply(*b)
		return nil
	})
}

func (s *BannerStore) Delete(ctx context.Context, id int64) (models.Banner, error) {
	return s.t.remove(ctx, id)
}
