package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/crewplan/auth"
)

func TestPush(t *testing.T) {
	var hits atomic.Int32
	var path atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		path.Store(r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("sink: %v", err)
	}
	if err := Push(context.Background(), srv.URL, "crewplan", reg, nil); err != nil {
		t.Fatalf("push: %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected one request, got %d", hits.Load())
	}
	if p, _ := path.Load().(string); !strings.Contains(p, "/job/crewplan") {
		t.Fatalf("unexpected path %s", p)
	}
}

func TestPush_EmptyURL(t *testing.T) {
	if err := Push(context.Background(), "", "crewplan", nil, nil); err != nil {
		t.Fatalf("empty url should be a no-op: %v", err)
	}
}

func TestPush_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	if err := Push(context.Background(), srv.URL, "crewplan", prometheus.NewRegistry(), nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestPush_ClientCredentials(t *testing.T) {
	tokens := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"push-token","token_type":"bearer","expires_in":3600}`))
	}))
	defer tokens.Close()
	var header atomic.Value
	gw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header.Store(r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer gw.Close()

	client := auth.NewClientCred(auth.Conf{ClientID: "crewplan", ClientSecret: "s", TokenURL: tokens.URL})
	if err := Push(context.Background(), gw.URL, "crewplan", prometheus.NewRegistry(), client); err != nil {
		t.Fatalf("push: %v", err)
	}
	if h, _ := header.Load().(string); h != "Bearer push-token" {
		t.Fatalf("unexpected Authorization header %q", h)
	}
}
