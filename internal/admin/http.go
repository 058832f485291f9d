package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ForgeStore/internal/catalog"
	"ForgeStore/pkg/kit"
)

type Server struct {
	Log   *zap.Logger
	Panel *Panel
}

func (s *Server) Mount(r chi.Router) {
	r.Get("/items", s.handleItems)
	r.Patch("/{source}/{id}/price", s.handlePrice)
	r.Post("/{source}/{id}/stock/toggle", s.handleStock)
	r.Put("/status", s.handleStatus)
}

type priceReq struct {
	Price string `json:"price" validate:"required"`
}

type statusReq struct {
	IsOnline *bool `json:"is_online" validate:"required"`
}

type statusResp struct {
	IsOnline bool   `json:"is_online"`
	Label    string `json:"label"`
}

// editFailure is returned when a write fails. Current is the value the panel
// shows after rollback.
type editFailure struct {
	Cause   string `json:"cause"`
	Current any    `json:"current"`
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Panel.Refresh(r.Context()))
}

func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	src, id, ok := itemRef(w, r)
	if !ok {
		return
	}

	var req priceReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteRequestError(w, r, err)
		return
	}

	it, err := s.Panel.UpdatePrice(r.Context(), src, id, req.Price)
	if err != nil {
		s.writeEditError(w, r, err, it)
		return
	}
	kit.WriteJSON(w, http.StatusOK, it)
}

func (s *Server) handleStock(w http.ResponseWriter, r *http.Request) {
	src, id, ok := itemRef(w, r)
	if !ok {
		return
	}

	it, err := s.Panel.ToggleStock(r.Context(), src, id)
	if err != nil {
		s.writeEditError(w, r, err, it)
		return
	}
	kit.WriteJSON(w, http.StatusOK, it)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var req statusReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteRequestError(w, r, err)
		return
	}

	online, err := s.Panel.SetOnline(r.Context(), *req.IsOnline)
	resp := statusResp{IsOnline: online, Label: catalog.StatusLabel(online)}
	if errors.Is(err, catalog.ErrNotFound) {
		kit.WriteError(w, r, http.StatusNotFound, "status record not found", nil)
		return
	}
	if err != nil {
		kit.WriteError(w, r, http.StatusBadGateway, "status update failed", editFailure{Cause: err.Error(), Current: resp})
		return
	}
	kit.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) writeEditError(w http.ResponseWriter, r *http.Request, err error, current catalog.Item) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		kit.WriteError(w, r, http.StatusNotFound, "not found", nil)
	case errors.Is(err, ErrEmptyPrice):
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
	default:
		kit.WriteError(w, r, http.StatusBadGateway, "update failed", editFailure{Cause: err.Error(), Current: current})
	}
}

func itemRef(w http.ResponseWriter, r *http.Request) (catalog.Source, int64, bool) {
	src, ok := catalog.ParseSource(chi.URLParam(r, "source"))
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "unknown source", map[string]string{"source": chi.URLParam(r, "source")})
		return "", 0, false
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid id", map[string]string{"id": chi.URLParam(r, "id")})
		return "", 0, false
	}
	return src, id, true
}
