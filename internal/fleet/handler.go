package fleet

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/cantera-ops/cantera/internal/platform/httpx"
)

// Handler wires HTTP endpoints for fleet and equipment master data.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers fleet routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/fleets", h.listFleets)
	r.Post("/fleets", h.createFleet)
	r.Put("/fleets", h.replaceFleets)
	r.Get("/equipment", h.listEquipment)
	r.Post("/equipment", h.createEquipment)
	r.Put("/equipment", h.replaceEquipment)
}

func (h *Handler) listFleets(w http.ResponseWriter, r *http.Request) {
	fleets, err := h.service.ListFleets(r.Context())
	if err != nil {
		h.logger.Error("list fleets", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, fleets)
}

type createFleetRequest struct {
	Name string `json:"name" validate:"required"`
}

func (h *Handler) createFleet(w http.ResponseWriter, r *http.Request) {
	var req createFleetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.FieldProblem(w, "fleet payload invalid", httpx.ValidationFields(err))
		return
	}
	f, err := h.service.CreateFleet(r.Context(), req.Name)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, f)
}

func (h *Handler) replaceFleets(w http.ResponseWriter, r *http.Request) {
	var fleets []Fleet
	if err := json.NewDecoder(r.Body).Decode(&fleets); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.service.ReplaceFleets(r.Context(), fleets); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int{"count": len(fleets)})
}

func (h *Handler) listEquipment(w http.ResponseWriter, r *http.Request) {
	units, err := h.service.ListEquipment(r.Context())
	if err != nil {
		h.logger.Error("list equipment", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, units)
}

type createEquipmentRequest struct {
	Code    string  `json:"code" validate:"required"`
	Plate   string  `json:"plate"`
	FleetID *string `json:"fleet_id"`
}

func (h *Handler) createEquipment(w http.ResponseWriter, r *http.Request) {
	var req createEquipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.FieldProblem(w, "equipment payload invalid", httpx.ValidationFields(err))
		return
	}
	e, err := h.service.CreateEquipment(r.Context(), Equipment{Code: req.Code, Plate: req.Plate, FleetID: req.FleetID})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, e)
}

func (h *Handler) replaceEquipment(w http.ResponseWriter, r *http.Request) {
	var units []Equipment
	if err := json.NewDecoder(r.Body).Decode(&units); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.service.ReplaceEquipment(r.Context(), units); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int{"count": len(units)})
}
