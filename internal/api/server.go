// Package api exposes the deal service over HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pauljones0/dealflow-hub/internal/config"
	"github.com/pauljones0/dealflow-hub/internal/deals"
	"github.com/pauljones0/dealflow-hub/internal/email"
	"github.com/pauljones0/dealflow-hub/internal/metrics"
	"github.com/pauljones0/dealflow-hub/internal/models"
)

const requestTimeout = 30 * time.Second

// BannerStore abstracts the storage layer for banners.
type BannerStore interface {
	GetAll(ctx context.Context) ([]models.Banner, error)
	GetByID(ctx context.Context, id int64) (models.Banner, error)
	GetByPosition(ctx context.Context, position string) ([]models.Banner, error)
	Create(ctx context.Context, b models.Banner) (models.Banner, error)
	Update(ctx context.Context, id int64, patch models.BannerPatch) (models.Banner, error)
	Delete(ctx context.Context, id int64) (models.Banner, error)
}

type Server struct {
	deals         *deals.Service
	banners       BannerStore
	emails        *email.Composer
	votes         *clientLimiter
	trendingLimit int
	trustProxy    bool
}

func New(svc *deals.Service, banners BannerStore, composer *email.Composer, cfg *config.Config) *Server {
	s := &Server{
		deals:   svc,
		banners: banners,
		emails:  composer,
	}
	if cfg != nil {
		s.votes = newClientLimiter(cfg.VoteRateLimit, cfg.VoteBurst)
		s.trendingLimit = cfg.TrendingLimit
		s.trustProxy = cfg.TrustProxyHeaders
	}
	return s
}

// Router builds the HTTP handler with the standard middleware chain.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	// Forwarded headers are client controlled unless a proxy in front rewrites them.
	if s.trustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/deals", func(r chi.Router) {
		r.Get("/", s.handleListDeals)
		r.Post("/", s.handleSubmitDeal)
		r.Get("/trending", s.handleTrending)
		r.Get("/featured", s.handleFeatured)
		r.Get("/categories", s.handleCategories)
		r.Get("/board", s.handleBoard)
		r.Get("/swipe", s.handleSwipe)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetDeal)
			r.Patch("/", s.handleUpdateDeal)
			r.Delete("/", s.handleDeleteDeal)
			r.Post("/vote", s.handleVoteDeal)
			r.Post("/updates", s.handleAddUpdate)
			r.Post("/ignore", s.handleIgnore)
			r.Post("/favorite", s.handleFavorite)
			r.Post("/move", s.handleMove)
			r.Post("/toggle-featured", s.handleToggleFeatured)
			r.Post("/toggle-status", s.handleToggleStatus)
			r.Get("/comments", s.handleListComments)
			r.Post("/comments", s.handlePostComment)
		})
	})

	r.Route("/comments/{id}", func(r chi.Router) {
		r.Patch("/", s.handleUpdateComment)
		r.Delete("/", s.handleDeleteComment)
		r.Post("/vote", s.handleVoteComment)
	})

	r.Route("/banners", func(r chi.Router) {
		r.Get("/", s.handleListBanners)
		r.Post("/", s.handleCreateBanner)
		r.Get("/{id}", s.handleGetBanner)
		r.Patch("/{id}", s.handleUpdateBanner)
		r.Delete("/{id}", s.handleDeleteBanner)
	})

	r.Route("/emails", func(r chi.Router) {
		r.Post("/", s.handleNewDraft)
		r.Get("/candidates", s.handleEmailCandidates)
		r.Post("/render", s.handleRenderSelection)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetDraft)
			r.Delete("/", s.handleDeleteDraft)
			r.Put("/main", s.handleSetMain)
			r.Delete("/main", s.handleClearMain)
			r.Post("/secondary/{dealID}", s.handleToggleSecondary)
			r.Post("/render", s.handleRenderDraft)
		})
	})

	return r
}

// requestLogger logs every request once it has been served and records it
// under its route pattern.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		var route string
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			route = rctx.RoutePattern()
		}
		metrics.ObserveHTTPRequest(r.Method, route, status, start)

		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		slog.Log(r.Context(), level, "HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
			"remote", r.RemoteAddr,
		)
	})
}
