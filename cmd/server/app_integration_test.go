//go:build integration

package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/pauljones0/dealflow-hub/internal/config"
	"github.com/pauljones0/dealflow-hub/internal/storage"
)

// Integration test that wires the real stores, service and API against a
// fake Discord webhook and drives a deal from submission to featured.

type webhookCall struct {
	method string
	path   string
	title  string
}

func TestIntegration_FeatureAnnouncesDeal(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []webhookCall
	)
	discord := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Embeds []struct {
				Title string `json:"title"`
			} `json:"embeds"`
		}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		call := webhookCall{method: r.Method, path: r.URL.Path}
		if len(payload.Embeds) > 0 {
			call.title = payload.Embeds[0].Title
		}
		mu.Lock()
		calls = append(calls, call)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"msg-123"}`))
	}))
	defer discord.Close()

	fx, err := storage.LoadFixtures("")
	if err != nil {
		t.Fatalf("LoadFixtures() error = %v", err)
	}
	cfg := &config.Config{
		DiscordWebhookURL: discord.URL + "/api/webhooks/1/token",
		TrendingLimit:     10,
	}
	a := newApp(cfg, fx)
	ts := httptest.NewServer(a.handler)
	defer ts.Close()

	post := func(path, body string) *http.Response {
		t.Helper()
		resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("POST %s error = %v", path, err)
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return resp
	}

	if resp := post("/deals/4/move", `{"column":"featured"}`); resp.StatusCode != http.StatusOK {
		t.Fatalf("move status = %d", resp.StatusCode)
	}
	a.svc.Wait()

	if id, ok := a.svc.AnnouncementID(4); !ok || id != "msg-123" {
		t.Errorf("AnnouncementID(4) = %q, %v", id, ok)
	}

	req, _ := http.NewRequest(http.MethodPatch, ts.URL+"/deals/4", strings.NewReader(`{"title":"CodeLens AI Reviewer Plus"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PATCH error = %v", err)
	}
	resp.Body.Close()
	a.svc.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 2 {
		t.Fatalf("webhook calls = %+v, want 2", calls)
	}
	if calls[0].method != http.MethodPost || !strings.HasPrefix(calls[0].title, "CodeLens AI Reviewer") {
		t.Errorf("announce call = %+v", calls[0])
	}
	if calls[1].method != http.MethodPatch || !strings.HasSuffix(calls[1].path, "/messages/msg-123") {
		t.Errorf("update call = %+v", calls[1])
	}
	if !strings.HasPrefix(calls[1].title, "CodeLens AI Reviewer Plus") {
		t.Errorf("updated title = %q", calls[1].title)
	}
}
