package fuel

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cantera-ops/cantera/internal/platform/httpx"
)

// Handler wires HTTP endpoints for the fuel price collection.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers fuel price routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/fuel-prices", h.list)
	r.Post("/fuel-prices", h.create)
	r.Put("/fuel-prices", h.replaceAll)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list fuel prices", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, records)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var rec PriceRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	created, err := h.service.Create(r.Context(), rec)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) replaceAll(w http.ResponseWriter, r *http.Request) {
	var records []PriceRecord
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.service.ReplaceAll(r.Context(), records); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int{"count": len(records)})
}
