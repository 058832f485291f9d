package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"ForgeStore/internal/cart"
	"ForgeStore/internal/catalog"
)

type recordingClipboard struct {
	texts []string
	err   error
}

func (c *recordingClipboard) WriteText(_ context.Context, text string) error {
	if c.err != nil {
		return c.err
	}
	c.texts = append(c.texts, text)
	return nil
}

func scenarioStore() *catalog.MemStore {
	s := catalog.NewMemStore()
	s.PutService(catalog.Item{ID: 1, Name: "Boost Lv10", Price: "Rp 10.000", Category: "Joki"})
	s.PutService(catalog.Item{ID: 7, Name: "AFK 1 Jam", Price: "Rp 25.000", Category: "System"})
	s.PutGamepass(catalog.Item{ID: 2, Name: "GP VIP", Price: "Rp 50.000"})
	s.PutGamepass(catalog.Item{ID: 3, Name: "Iron Ore", Price: "Rp 1.000", Stock: "Kosong"})
	s.PutStatus(catalog.Status{ID: catalog.DefaultStatusID, IsOnline: true})
	return s
}

func newTestServer(store catalog.Store, clip cart.Clipboard) (*Server, http.Handler, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	s := &Server{
		Log:        zap.NewNop(),
		Loader:     catalog.NewLoader(store, zap.NewNop()),
		Clipboard:  clip,
		ContactURL: "https://example.test/dm",
	}
	h := NewHandler(s, HTTPDeps{Log: zap.NewNop(), Service: "storefront", Registry: reg})
	return s, h, reg
}

func do(h http.Handler, method, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCheckout_TwoItemScenario(t *testing.T) {
	clip := &recordingClipboard{}
	_, h, _ := newTestServer(scenarioStore(), clip)

	rec := do(h, http.MethodPost, "/checkout", `{"items":[{"type":"service","id":1},{"type":"gamepass","id":2}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}

	var got cart.Receipt
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.State != cart.StateCopied || got.Total != 60000 || got.TotalText != "Rp 60.000" {
		t.Fatalf("receipt=%+v", got)
	}
	if len(got.Lines) != 2 || got.Lines[0].Display != "Rp 10.000" || got.Lines[1].Display != "Rp 50.000" {
		t.Fatalf("lines=%+v", got.Lines)
	}
	if len(clip.texts) != 1 || clip.texts[0] != got.Message {
		t.Fatalf("clipboard=%q", clip.texts)
	}
	for _, want := range []string{
		"1. [Jasa] Boost Lv10 - Rp 10.000",
		"2. [GP] VIP - Rp 50.000",
		"💰 Total: *Rp 60.000*",
	} {
		if !strings.Contains(got.Message, want) {
			t.Fatalf("message missing %q:\n%s", want, got.Message)
		}
	}
	if got.ContactURL != "https://example.test/dm" {
		t.Fatalf("contact=%q", got.ContactURL)
	}
}

func TestCheckout_AfkUsesConfiguredRates(t *testing.T) {
	clip := &recordingClipboard{}
	_, h, _ := newTestServer(scenarioStore(), clip)

	rec := do(h, http.MethodPost, "/checkout", `{"afk":[{"base":1,"extra":0},{"base":1,"extra":0},{"base":5,"extra":2}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}

	var got cart.Receipt
	_ = json.Unmarshal(rec.Body.Bytes(), &got)
	if len(got.Lines) != 2 {
		t.Fatalf("identical selections should collapse: %+v", got.Lines)
	}
	if got.Lines[0].Subtotal != 25000 || got.Lines[1].Subtotal != 105000 {
		t.Fatalf("subtotals=%+v", got.Lines)
	}
	if got.Lines[0].Tag != "[⏳ AFK]" {
		t.Fatalf("tag=%q", got.Lines[0].Tag)
	}
}

func TestCheckout_Rejections(t *testing.T) {
	_, h, reg := newTestServer(scenarioStore(), &recordingClipboard{})

	cases := []struct {
		name string
		body string
		code int
	}{
		{"empty", `{}`, http.StatusBadRequest},
		{"bad json", `{"items":`, http.StatusBadRequest},
		{"unknown type", `{"items":[{"type":"orders","id":1}]}`, http.StatusUnprocessableEntity},
		{"unknown id", `{"items":[{"type":"service","id":99}]}`, http.StatusUnprocessableEntity},
		{"system row", `{"items":[{"type":"service","id":7}]}`, http.StatusUnprocessableEntity},
		{"duplicate", `{"items":[{"type":"service","id":1},{"type":"service","id":1}]}`, http.StatusUnprocessableEntity},
		{"single qty", `{"items":[{"type":"gamepass","id":2,"qty":2}]}`, http.StatusUnprocessableEntity},
		{"afk base", `{"afk":[{"base":6,"extra":0}]}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(h, http.MethodPost, "/checkout", tc.body)
			if rec.Code != tc.code {
				t.Fatalf("status=%d want=%d body=%s", rec.Code, tc.code, rec.Body.String())
			}
		})
	}

	if v := counterValue(t, reg, "forgestore_checkouts_total", resultRejected); v != float64(len(cases)) {
		t.Fatalf("rejected checkouts=%v want=%d", v, len(cases))
	}
}

func TestCheckout_MultiQuantityOre(t *testing.T) {
	clip := &recordingClipboard{}
	_, h, _ := newTestServer(scenarioStore(), clip)

	rec := do(h, http.MethodPost, "/checkout", `{"items":[{"type":"gamepass","id":3,"qty":4}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(clip.texts[0], "1. [Item] 4x Iron Ore - Rp 4.000") {
		t.Fatalf("message=%s", clip.texts[0])
	}
}

func TestCheckout_CopyFailure(t *testing.T) {
	_, h, reg := newTestServer(scenarioStore(), &recordingClipboard{err: errors.New("broker down")})

	rec := do(h, http.MethodPost, "/checkout", `{"items":[{"type":"service","id":1}]}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status=%d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), cart.ErrCopyFailed.Error()) {
		t.Fatalf("body=%s", rec.Body.String())
	}
	if v := counterValue(t, reg, "forgestore_checkouts_total", resultFailed); v != 1 {
		t.Fatalf("failed checkouts=%v", v)
	}
}

func TestCatalogView(t *testing.T) {
	_, h, _ := newTestServer(scenarioStore(), &recordingClipboard{})

	rec := do(h, http.MethodGet, "/catalog", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}

	var v CatalogView
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !v.Online || v.Status != "Online" {
		t.Fatalf("status=%v %q", v.Online, v.Status)
	}
	if len(v.Joki) != 1 || len(v.Gamepasses) != 1 || len(v.Ores) != 1 {
		t.Fatalf("view=%+v", v)
	}
	if v.Gamepasses[0].Name != "VIP" || v.Gamepasses[0].PriceValue != 50000 {
		t.Fatalf("gamepass=%+v", v.Gamepasses[0])
	}
	if !v.Ores[0].SoldOut || !v.Ores[0].Multi {
		t.Fatalf("ore=%+v", v.Ores[0])
	}
	if v.Afk.Tiers[0].Price != 25000 || v.Afk.Tiers[4].Price != 75000 {
		t.Fatalf("tiers=%+v", v.Afk.Tiers)
	}
	if v.Afk.Hint != "1 Jam 25K • 3 Jam 55K • 5 Jam 75K" {
		t.Fatalf("hint=%q", v.Afk.Hint)
	}
}

func TestStatus_Offline(t *testing.T) {
	store := scenarioStore()
	_, h, _ := newTestServer(store, &recordingClipboard{})

	if err := store.SetOnline(context.Background(), catalog.DefaultStatusID, false); err != nil {
		t.Fatalf("set online: %v", err)
	}
	rec := do(h, http.MethodGet, "/status", "")
	if !strings.Contains(rec.Body.String(), `"status":"Offline"`) {
		t.Fatalf("body=%s", rec.Body.String())
	}
}

func TestAfkQuote(t *testing.T) {
	_, h, _ := newTestServer(catalog.NewMemStore(), &recordingClipboard{})

	cases := []struct {
		query string
		price int64
		extra int
	}{
		{"", 20000, 0},
		{"?base=3", 55000, 0},
		{"?base=5&extra=2", 105000, 2},
		{"?base=3&extra=4", 55000, 0},
	}
	for _, tc := range cases {
		rec := do(h, http.MethodGet, "/afk/quote"+tc.query, "")
		var q QuoteView
		if err := json.Unmarshal(rec.Body.Bytes(), &q); err != nil {
			t.Fatalf("%s decode: %v", tc.query, err)
		}
		if q.Price != tc.price || q.Extra != tc.extra {
			t.Fatalf("%s quote=%+v", tc.query, q)
		}
	}

	rec := do(h, http.MethodGet, "/afk/quote?base=x", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", rec.Code)
	}
}

func counterValue(t *testing.T, reg *prometheus.Registry, name, result string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "result" && lp.GetValue() == result {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}
