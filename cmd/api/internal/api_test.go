package internal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fazecat/zonewatch/Internal/utils/config"
	"github.com/fazecat/zonewatch/Internal/utils/scanner"
)

func TestHandleTriggerScan_OutlivesRequestContext(t *testing.T) {
	scanCtx := make(chan context.Context, 1)
	orig := runScan
	runScan = func(ctx context.Context, cfg *config.Config) (*scanner.ScanResult, error) {
		scanCtx <- ctx
		return &scanner.ScanResult{}, nil
	}
	defer func() { runScan = orig }()

	api := &API{Config: &config.Config{}}

	reqCtx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodPost, "/api/scan", nil).WithContext(reqCtx)
	rec := httptest.NewRecorder()

	api.HandleTriggerScan(rec, req)
	// The server cancels the request context as soon as the handler returns.
	cancel()

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}

	select {
	case ctx := <-scanCtx:
		if err := ctx.Err(); err != nil {
			t.Errorf("background scan context must survive the request: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("scan was never started")
	}
}
