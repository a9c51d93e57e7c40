package materials

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/cantera-ops/cantera/internal/platform/httpx"
)

// Handler wires HTTP endpoints for the materials collections.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers materials routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/materials", func(r chi.Router) {
		r.Get("/projects", h.listProjects)
		r.Post("/projects", h.createProject)
		r.Put("/projects", h.replaceProjects)
		r.Get("/budget", h.listBudget)
		r.Put("/budget", h.replaceBudget)
		r.Get("/purchases", h.listPurchases)
		r.Post("/purchases", h.createPurchase)
		r.Put("/purchases", h.replacePurchases)
		r.Get("/allocations", h.listAllocations)
		r.Post("/allocations", h.createAllocation)
		r.Put("/allocations", h.replaceAllocations)
	})
}

func (h *Handler) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.ListProjects(r.Context())
	if err != nil {
		h.logger.Error("list projects", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, projects)
}

type createProjectRequest struct {
	Name        string `json:"name" validate:"required"`
	Responsible string `json:"responsible"`
}

func (h *Handler) createProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.FieldProblem(w, "project payload invalid", httpx.ValidationFields(err))
		return
	}
	p, err := h.service.CreateProject(r.Context(), req.Name, req.Responsible)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *Handler) replaceProjects(w http.ResponseWriter, r *http.Request) {
	var projects []Project
	if err := json.NewDecoder(r.Body).Decode(&projects); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.service.ReplaceProjects(r.Context(), projects); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int{"count": len(projects)})
}

func (h *Handler) listBudget(w http.ResponseWriter, r *http.Request) {
	lines, err := h.service.ListBudget(r.Context())
	if err != nil {
		h.logger.Error("list budget", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, lines)
}

func (h *Handler) replaceBudget(w http.ResponseWriter, r *http.Request) {
	var lines []BudgetLine
	if err := json.NewDecoder(r.Body).Decode(&lines); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.service.ReplaceBudget(r.Context(), lines); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int{"count": len(lines)})
}

func (h *Handler) listPurchases(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListPurchases(r.Context())
	if err != nil {
		h.logger.Error("list purchases", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, records)
}

func (h *Handler) createPurchase(w http.ResponseWriter, r *http.Request) {
	var rec PurchaseRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	created, err := h.service.CreatePurchase(r.Context(), rec)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) replacePurchases(w http.ResponseWriter, r *http.Request) {
	var records []PurchaseRecord
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.service.ReplacePurchases(r.Context(), records); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int{"count": len(records)})
}

func (h *Handler) listAllocations(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListAllocations(r.Context())
	if err != nil {
		h.logger.Error("list allocations", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, records)
}

func (h *Handler) createAllocation(w http.ResponseWriter, r *http.Request) {
	var rec AllocationRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	created, err := h.service.CreateAllocation(r.Context(), rec)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) replaceAllocations(w http.ResponseWriter, r *http.Request) {
	var records []AllocationRecord
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.service.ReplaceAllocations(r.Context(), records); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int{"count": len(records)})
}
