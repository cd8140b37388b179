package adapthttp_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	adapthttp "nutrilog/internal/adapter/http"
	"nutrilog/internal/adapter/memory"
	"nutrilog/internal/app"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)

	db := memory.New()
	auth := app.NewAuthService(db, db.NewSessionRepo())
	foods := app.NewFoodService(db)
	portions := app.NewPortionService(db, db)
	lookup := app.NewLookupService(db, nil, log)
	quickAdd := app.NewQuickAddService(lookup, portions)
	totals := app.NewTotalsService(db)

	srv := adapthttp.New(auth, foods, portions, quickAdd, totals, adapthttp.OIDCConfig{}, log)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/foods")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	entries := logs.FilterMessage("request").All()
	if len(entries) != 1 {
		t.Fatalf("expected one request log line, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["method"] != http.MethodGet {
		t.Errorf("expected method GET, got %v", fields["method"])
	}
	if fields["path"] != "/api/foods" {
		t.Errorf("expected path /api/foods, got %v", fields["path"])
	}
	if fields["status"] != int64(http.StatusUnauthorized) {
		t.Errorf("expected status 401, got %v", fields["status"])
	}
}
