package reporthttp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cantera-ops/cantera/internal/platform/httpx"
	"github.com/cantera-ops/cantera/internal/report"
	"github.com/cantera-ops/cantera/internal/report/export"
	"github.com/cantera-ops/cantera/internal/report/svg"
	"github.com/cantera-ops/cantera/internal/shared"
)

// Handler coordinates HTTP requests for cost reports and snapshots.
type Handler struct {
	logger  *slog.Logger
	service *report.Service
}

// NewHandler constructs the report HTTP handler.
func NewHandler(logger *slog.Logger, service *report.Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

func parsePeriod(r *http.Request, fromKey, toKey string) (shared.Date, shared.Date, bool) {
	from, okFrom := shared.ParseDate(r.URL.Query().Get(fromKey))
	to, okTo := shared.ParseDate(r.URL.Query().Get(toKey))
	return from, to, okFrom && okTo
}

func (h *Handler) period(w http.ResponseWriter, r *http.Request) {
	from, to, ok := parsePeriod(r, "from", "to")
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "from and to must be YYYY-MM-DD dates")
		return
	}
	rep, err := h.service.EquipmentPeriod(r.Context(), from, to)
	if err != nil {
		h.logger.Error("period report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	switch r.URL.Query().Get("format") {
	case "csv":
		h.writeCSV(w, fmt.Sprintf("period_%s_%s.csv", from, to), func(buf *bytes.Buffer) error {
			return export.WritePeriodCSV(buf, rep)
		})
	case "xlsx":
		h.writeXLSX(w, fmt.Sprintf("period_%s_%s.xlsx", from, to), func(buf *bytes.Buffer) error {
			return export.WritePeriodXLSX(buf, rep)
		})
	default:
		httpx.JSON(w, http.StatusOK, rep)
	}
}

func (h *Handler) compareParams(r *http.Request) report.SnapshotParams {
	q := r.URL.Query()
	baseFrom, _ := shared.ParseDate(q.Get("base_from"))
	baseTo, _ := shared.ParseDate(q.Get("base_to"))
	compareFrom, _ := shared.ParseDate(q.Get("compare_from"))
	compareTo, _ := shared.ParseDate(q.Get("compare_to"))
	return report.SnapshotParams{
		BaseFrom:    baseFrom,
		BaseTo:      baseTo,
		CompareFrom: compareFrom,
		CompareTo:   compareTo,
	}
}

func (h *Handler) compare(w http.ResponseWriter, r *http.Request) {
	cmp, err := h.service.ComparePeriods(r.Context(), h.compareParams(r))
	if err != nil {
		h.logger.Error("compare report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if r.URL.Query().Get("format") == "csv" {
		h.writeCSV(w, "comparison.csv", func(buf *bytes.Buffer) error {
			return export.WriteComparisonCSV(buf, cmp.Comparison)
		})
		return
	}
	httpx.JSON(w, http.StatusOK, cmp)
}

func (h *Handler) compareChart(w http.ResponseWriter, r *http.Request) {
	cmp, err := h.service.ComparePeriods(r.Context(), h.compareParams(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if !cmp.Comparison.Significant {
		httpx.Problem(w, http.StatusUnprocessableEntity, "No Significant Variance", "every category delta is below the materiality threshold")
		return
	}
	h.writeChart(w, "Cost variance", cmp.Comparison.Waterfall)
}

func (h *Handler) project(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	cmp, err := h.service.ProjectMaterials(r.Context(), projectID)
	if err != nil {
		h.logger.Error("project report", slog.String("project_id", projectID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	switch r.URL.Query().Get("format") {
	case "csv":
		h.writeCSV(w, fmt.Sprintf("project_%s.csv", projectID), func(buf *bytes.Buffer) error {
			return export.WriteProjectCSV(buf, cmp.Report)
		})
	case "xlsx":
		h.writeXLSX(w, fmt.Sprintf("project_%s.xlsx", projectID), func(buf *bytes.Buffer) error {
			return export.WriteProjectXLSX(buf, cmp.Report)
		})
	default:
		httpx.JSON(w, http.StatusOK, cmp)
	}
}

func (h *Handler) projectChart(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	cmp, err := h.service.ProjectMaterials(r.Context(), projectID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if !cmp.Comparison.Significant {
		httpx.Problem(w, http.StatusUnprocessableEntity, "No Significant Variance", "budgeted and allocated spend match within the materiality threshold")
		return
	}
	h.writeChart(w, "Material variance", cmp.Comparison.Waterfall)
}

func (h *Handler) purchases(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.PurchaseSummary(r.Context())
	if err != nil {
		h.logger.Error("purchase summary", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if r.URL.Query().Get("format") == "csv" {
		h.writeCSV(w, "purchases.csv", func(buf *bytes.Buffer) error {
			return export.WritePurchasesCSV(buf, rows)
		})
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

type triggerSnapshotRequest struct {
	Kind   report.SnapshotKind   `json:"kind"`
	Params report.SnapshotParams `json:"params"`
}

func (h *Handler) triggerSnapshot(w http.ResponseWriter, r *http.Request) {
	var req triggerSnapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	snap, err := h.service.TriggerSnapshot(r.Context(), req.Kind, req.Params)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusAccepted, snap)
}

func (h *Handler) listSnapshots(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	snapshots, err := h.service.ListSnapshots(r.Context(), limit)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, snapshots)
}

func (h *Handler) getSnapshot(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "snapshotID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "snapshot id must be numeric")
		return
	}
	snap, err := h.service.GetSnapshot(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, snap)
}

func (h *Handler) snapshotResult(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "snapshotID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "snapshot id must be numeric")
		return
	}
	payload, err := h.service.LoadSnapshotResult(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func (h *Handler) writeCSV(w http.ResponseWriter, filename string, write func(*bytes.Buffer) error) {
	buf := &bytes.Buffer{}
	if err := write(buf); err != nil {
		h.logger.Error("csv export", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) writeXLSX(w http.ResponseWriter, filename string, write func(*bytes.Buffer) error) {
	buf := &bytes.Buffer{}
	if err := write(buf); err != nil {
		h.logger.Error("xlsx export", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) writeChart(w http.ResponseWriter, title string, steps []report.Step) {
	chart, err := svg.Waterfall(svg.DefaultWidth, svg.DefaultHeight, steps, svg.WaterfallOpts{Title: title})
	if err != nil {
		h.logger.Error("render chart", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(chart))
}
