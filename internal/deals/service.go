// Package deals holds the lifecycle rules for deals and their comment threads:
// submission, admin edits, kanban moves, votes and triage.
package deals

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pauljones0/dealflow-hub/internal/config"
	"github.com/pauljones0/dealflow-hub/internal/models"
	"github.com/pauljones0/dealflow-hub/internal/util"
)

const announceTimeout = 30 * time.Second

type Service struct {
	deals     DealStore
	comments  CommentStore
	validator SubmissionValidator
	announcer Announcer
	recorder  Recorder
	amazonTag string

	mu            sync.Mutex
	announcements map[int64]string
	featured      map[int64]uint64 // pending or live announcement generation per deal
	gen           uint64
	wg            sync.WaitGroup
}

// Option configures a Service.
type Option func(*Service)

// WithAnnouncer posts newly featured deals through a. A nil Announcer disables it.
func WithAnnouncer(a Announcer) Option {
	return func(s *Service) { s.announcer = a }
}

func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

func New(deals DealStore, comments CommentStore, v SubmissionValidator, cfg *config.Config, opts ...Option) *Service {
	s := &Service{
		deals:         deals,
		comments:      comments,
		validator:     v,
		announcements: make(map[int64]string),
		featured:      make(map[int64]uint64),
	}
	if cfg != nil {
		s.amazonTag = cfg.AmazonAffiliateTag
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Wait blocks until in-flight announcements have finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) record(entity, op string) {
	if s.recorder != nil {
		s.recorder.RecordMutation(entity, op)
	}
}

func (s *Service) List(ctx context.Context) ([]models.Deal, error) {
	return s.deals.GetAll(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (models.Deal, error) {
	return s.deals.GetByID(ctx, id)
}

// Submit validates a public submission and stores it as an inactive,
// unfeatured deal awaiting review.
func (s *Service) Submit(ctx context.Context, sub models.DealSubmission) (models.Deal, error) {
	sub.Normalize()
	if err := s.validator.ValidateSubmission(sub); err != nil {
		return models.Deal{}, err
	}
	sub.AffiliateLink = s.cleanLink(sub.AffiliateLink)

	d, err := s.deals.Create(ctx, sub.ToDeal())
	if err != nil {
		return models.Deal{}, err
	}
	s.record("deal", "submit")
	slog.Info("Deal submitted", "id", d.ID, "title", d.Title, "category", d.Category)
	return d, nil
}

func (s *Service) cleanLink(link string) string {
	cleaned, changed := util.CleanReferralLink(link, s.amazonTag)
	if changed {
		slog.Debug("Cleaned affiliate link", "from", link, "to", cleaned)
	}
	if normalized, err := util.NormalizeURL(cleaned); err == nil {
		return normalized
	}
	return cleaned
}

// Update applies an admin patch. The merged record is validated by the store
// before it is committed.
func (s *Service) Update(ctx context.Context, id int64, patch models.DealPatch) (models.Deal, error) {
	if patch.AffiliateLink != nil {
		link := s.cleanLink(strings.TrimSpace(*patch.AffiliateLink))
		patch.AffiliateLink = &link
	}
	return s.transition(ctx, id, "update", func(models.Deal) (models.DealPatch, error) {
		return patch, nil
	})
}

// Move applies the kanban drop rule for column. Unknown columns are rejected
// before the deal is touched.
func (s *Service) Move(ctx context.Context, id int64, column models.Column) (models.Deal, error) {
	patch, err := DropPatch(column)
	if err != nil {
		return models.Deal{}, err
	}
	return s.transition(ctx, id, "move", func(models.Deal) (models.DealPatch, error) {
		return patch, nil
	})
}

func (s *Service) ToggleFeatured(ctx context.Context, id int64) (models.Deal, error) {
	return s.transition(ctx, id, "toggle_featured", func(cur models.Deal) (models.DealPatch, error) {
		return ToggleFeaturedPatch(cur), nil
	})
}

func (s *Service) ToggleStatus(ctx context.Context, id int64) (models.Deal, error) {
	return s.transition(ctx, id, "toggle_status", func(cur models.Deal) (models.DealPatch, error) {
		return ToggleStatusPatch(cur), nil
	})
}

// transition runs a lifecycle change and announces the deal if it just
// became featured.
func (s *Service) transition(ctx context.Context, id int64, op string, fn func(models.Deal) (models.DealPatch, error)) (models.Deal, error) {
	var wasFeatured bool
	d, err := s.deals.UpdateFunc(ctx, id, func(cur models.Deal) (models.DealPatch, error) {
		wasFeatured = cur.Featured
		return fn(cur)
	})
	if err != nil {
		return models.Deal{}, err
	}
	s.record("deal", op)

	switch {
	case d.Featured && !wasFeatured:
		s.announce(d)
	case d.Featured && op == "update":
		s.refreshAnnouncement(d)
	case !d.Featured && wasFeatured:
		s.forgetAnnouncement(d.ID)
	}
	return d, nil
}

func (s *Service) announce(d models.Deal) {
	if s.announcer == nil {
		return
	}
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.featured[d.ID] = gen
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), announceTimeout)
		defer cancel()

		messageID, err := s.announcer.Send(ctx, d)
		if err != nil {
			slog.Warn("Failed to announce featured deal", "id", d.ID, "title", d.Title, "error", err)
			return
		}
		s.mu.Lock()
		current := s.featured[d.ID] == gen
		if current && messageID != "" {
			s.announcements[d.ID] = messageID
		}
		s.mu.Unlock()
		if !current {
			slog.Info("Dropped announcement for deal no longer featured", "id", d.ID, "message_id", messageID)
			return
		}
		slog.Info("Announced featured deal", "id", d.ID, "title", d.Title, "message_id", messageID)
	}()
}

func (s *Service) refreshAnnouncement(d models.Deal) {
	if s.announcer == nil {
		return
	}
	s.mu.Lock()
	messageID := s.announcements[d.ID]
	s.mu.Unlock()
	if messageID == "" {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), announceTimeout)
		defer cancel()
		if err := s.announcer.Update(ctx, messageID, d); err != nil {
			slog.Warn("Failed to update deal announcement", "id", d.ID, "message_id", messageID, "error", err)
		}
	}()
}

// forgetAnnouncement also invalidates any Send still in flight for id.
func (s *Service) forgetAnnouncement(id int64) {
	s.mu.Lock()
	delete(s.announcements, id)
	delete(s.featured, id)
	s.mu.Unlock()
}

// AnnouncementID returns the message that announced deal id, if any.
func (s *Service) AnnouncementID(id int64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	messageID, ok := s.announcements[id]
	return messageID, ok
}

func (s *Service) Vote(ctx context.Context, id int64) (models.Deal, error) {
	d, err := s.deals.Vote(ctx, id)
	if err != nil {
		return models.Deal{}, err
	}
	s.record("deal", "vote")
	return d, nil
}

// AddUpdate prepends a dated note to a deal.
func (s *Service) AddUpdate(ctx context.Context, id int64, content string) (models.Deal, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Deal{}, models.NewValidationError("content", "Update content is required")
	}
	d, err := s.deals.AddUpdate(ctx, id, content)
	if err != nil {
		return models.Deal{}, err
	}
	s.record("deal", "add_update")
	return d, nil
}

func (s *Service) Ignore(ctx context.Context, id int64) (models.Deal, error) {
	d, err := s.deals.Ignore(ctx, id)
	if err != nil {
		return models.Deal{}, err
	}
	s.record("deal", "ignore")
	return d, nil
}

func (s *Service) Favorite(ctx context.Context, id int64) (models.Deal, error) {
	d, err := s.deals.AddToFavorites(ctx, id)
	if err != nil {
		return models.Deal{}, err
	}
	s.record("deal", "favorite")
	return d, nil
}

// Delete removes a deal irrevocably together with its comments.
func (s *Service) Delete(ctx context.Context, id int64) (models.Deal, error) {
	d, err := s.deals.Delete(ctx, id)
	if err != nil {
		return models.Deal{}, err
	}
	s.record("deal", "delete")
	s.forgetAnnouncement(id)

	// The deal is gone at this point; finish the cascade even if the caller has left.
	removed, err := s.comments.DeleteByDealID(context.WithoutCancel(ctx), id)
	if err != nil {
		slog.Warn("Failed to delete comments of deleted deal", "id", id, "error", err)
	} else if len(removed) > 0 {
		slog.Info("Deleted deal comments", "id", id, "count", len(removed))
	}
	return d, nil
}
