package main

import (
	"log/slog"
	"net/http"

	"github.com/pauljones0/dealflow-hub/internal/api"
	"github.com/pauljones0/dealflow-hub/internal/config"
	"github.com/pauljones0/dealflow-hub/internal/deals"
	"github.com/pauljones0/dealflow-hub/internal/email"
	"github.com/pauljones0/dealflow-hub/internal/metrics"
	"github.com/pauljones0/dealflow-hub/internal/notifier"
	"github.com/pauljones0/dealflow-hub/internal/storage"
	"github.com/pauljones0/dealflow-hub/internal/validator"
)

type app struct {
	svc     *deals.Service
	handler http.Handler
}

// newApp wires the stores, the deal service, the email composer and the
// HTTP API from cfg and the seed data.
func newApp(cfg *config.Config, fx storage.Fixtures) *app {
	v := validator.New()
	opts := []storage.Option{
		storage.WithCheck(v.ValidateStruct),
		storage.WithLatency(storage.Latency{Min: cfg.LatencyMin, Max: cfg.LatencyMax}),
	}

	dealStore := storage.NewDealStore(fx.Deals, opts...)
	commentStore := storage.NewCommentStore(fx.Comments, opts...)
	bannerStore := storage.NewBannerStore(fx.Banners, opts...)

	svcOpts := []deals.Option{deals.WithRecorder(metrics.Recorder{})}
	if n := notifier.New(cfg.DiscordWebhookURL); n.Enabled() {
		svcOpts = append(svcOpts, deals.WithAnnouncer(n))
	} else {
		slog.Info("Discord announcements disabled")
	}
	svc := deals.New(dealStore, commentStore, v, cfg, svcOpts...)

	composer := email.NewComposer(dealStore, email.DefaultBrand, nil)

	return &app{
		svc:     svc,
		handler: api.New(svc, bannerStore, composer, cfg).Router(),
	}
}
