package storefront

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"ForgeStore/internal/cart"
	"ForgeStore/internal/catalog"
	"ForgeStore/pkg/kit"
)

const (
	resultCopied   = "copied"
	resultRejected = "rejected"
	resultFailed   = "failed"
)

type Server struct {
	Log        *zap.Logger
	Loader     *catalog.Loader
	Clipboard  cart.Clipboard
	ContactURL string

	checkouts *prometheus.CounterVec
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", kit.OK)
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()

		if err := s.Loader.Store.Ping(ctx); err != nil {
			s.Log.Warn("readyz failed", zap.Error(err))
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Get("/catalog", s.handleCatalog)
	r.Get("/status", s.handleStatus)
	r.Get("/afk/quote", s.handleQuote)
	r.Post("/checkout", s.handleCheckout)

	return r
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	c := s.Loader.Load(r.Context())
	kit.WriteJSON(w, http.StatusOK, buildView(c, s.ContactURL))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	c := s.Loader.Load(r.Context())
	kit.WriteJSON(w, http.StatusOK, map[string]any{
		"is_online": c.Online,
		"status":    catalog.StatusLabel(c.Online),
	})
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	sel := cart.DefaultSelection()
	q := r.URL.Query()

	var err error
	if v := q.Get("base"); v != "" {
		if sel.Base, err = strconv.Atoi(v); err != nil {
			kit.WriteError(w, r, http.StatusBadRequest, "invalid base", map[string]string{"base": v})
			return
		}
	}
	if v := q.Get("extra"); v != "" {
		if sel.Extra, err = strconv.Atoi(v); err != nil {
			kit.WriteError(w, r, http.StatusBadRequest, "invalid extra", map[string]string{"extra": v})
			return
		}
	}

	c := s.Loader.Load(r.Context())
	kit.WriteJSON(w, http.StatusOK, quoteView(sel, cart.RatesFrom(c.AfkConfig)))
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		s.countCheckout(resultRejected)
		kit.WriteRequestError(w, r, err)
		return
	}

	c, err := buildCart(req, s.Loader.Load(r.Context()))
	if err != nil {
		s.countCheckout(resultRejected)
		var le *LineError
		if errors.As(err, &le) {
			kit.WriteError(w, r, http.StatusUnprocessableEntity, le.Err.Error(), map[string]int{"index": le.Index})
			return
		}
		kit.WriteError(w, r, http.StatusUnprocessableEntity, err.Error(), nil)
		return
	}

	receipt, err := cart.Checkout(r.Context(), c, s.Clipboard, s.ContactURL)
	switch {
	case errors.Is(err, cart.ErrEmptyCart):
		s.countCheckout(resultRejected)
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	case errors.Is(err, cart.ErrCopyFailed):
		s.countCheckout(resultFailed)
		s.Log.Error("checkout hand-off failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusBadGateway, cart.ErrCopyFailed.Error(), nil)
		return
	case err != nil:
		s.countCheckout(resultFailed)
		s.Log.Error("checkout failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	s.countCheckout(resultCopied)
	s.Log.Info("order copied",
		zap.Int("lines", len(receipt.Lines)),
		zap.Int64("total", receipt.Total),
	)
	kit.WriteJSON(w, http.StatusOK, receipt)
}

func (s *Server) countCheckout(result string) {
	if s.checkouts != nil {
		s.checkouts.WithLabelValues(result).Inc()
	}
}
