package kit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestIPRateLimiter(t *testing.T) {
	l := NewIPRateLimiter(2, time.Minute)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(remote, xff string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = remote
		if xff != "" {
			req.Header.Set("X-Forwarded-For", xff)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 2; i++ {
		if code := do("10.0.0.1:5000", ""); code != http.StatusNoContent {
			t.Fatalf("attempt %d status=%d", i, code)
		}
	}
	if code := do("10.0.0.1:5001", ""); code != http.StatusTooManyRequests {
		t.Fatalf("status=%d want=429", code)
	}
	if code := do("10.0.0.2:5000", ""); code != http.StatusNoContent {
		t.Fatalf("other ip limited: %d", code)
	}
	if code := do("10.0.0.3:5000", "10.0.0.1, 172.16.0.1"); code != http.StatusTooManyRequests {
		t.Fatalf("forwarded ip not limited: %d", code)
	}
}

func TestPruneKeepsRecentHits(t *testing.T) {
	now := time.Now()
	ts := []time.Time{now.Add(-2 * time.Minute), now.Add(-10 * time.Second), now}
	got := prune(ts, now.Add(-time.Minute))
	if len(got) != 2 {
		t.Fatalf("len=%d want=2", len(got))
	}
}
