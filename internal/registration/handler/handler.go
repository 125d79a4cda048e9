// Package handler exposes the registration workflow over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"immat/internal/registration/models"
	"immat/internal/registration/service"
	"immat/internal/workflow"
	"immat/pkg/domain"
	dErrors "immat/pkg/domain-errors"
	"immat/pkg/platform/httputil"
	auth "immat/pkg/platform/middleware/auth"
	request "immat/pkg/platform/middleware/request"
)

// Service is the registration service as the handlers use it.
type Service interface {
	RegisterVehicle(ctx context.Context, in service.RegisterVehicleInput) (*models.Vehicle, error)
	Submit(ctx context.Context, in service.SubmitInput) (*models.Dossier, error)
	GetCase(ctx context.Context, reference string) (*service.CaseView, error)
	AllocateMark(ctx context.Context, vehicleID domain.VehicleID) (*service.Attribution, error)
	Validate(ctx context.Context, reference string) (models.Mark, error)
	Reconcile(ctx context.Context, reference string) (*service.ReconcileResult, error)
	ReconcileDepartment(ctx context.Context, dept domain.DepartmentID) (*service.ReconcileReport, error)
	ListAdmin(ctx context.Context, filter models.AdminFilter) ([]models.AdminListing, error)
	PeekSequence(ctx context.Context, dept domain.DepartmentID, class models.VehicleClass) (models.Counter, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Register mounts the routes on r. Authentication middleware is applied by
// the caller.
func (h *Handler) Register(r chi.Router) {
	r.Post("/vehicles", h.HandleRegisterVehicle)
	r.Post("/vehicles/{vehicleID}/mark", h.HandleAllocateMark)
	r.Post("/dossiers", h.HandleSubmitDossier)
	r.Get("/dossiers/{reference}", h.HandleGetCase)
	r.Post("/dossiers/{reference}/validate", h.HandleValidate)
	r.Post("/dossiers/{reference}/reconcile", h.HandleReconcile)
	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.RequireRole(h.logger, workflow.AdministrativeRoles...))
		r.Get("/dossiers", h.HandleListAdmin)
		r.Post("/reconcile", h.HandleReconcileDepartment)
	})
	r.Get("/sequences/{department}/{class}", h.HandlePeekSequence)
}

func (h *Handler) HandleRegisterVehicle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RegisterVehicleRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	v, err := h.service.RegisterVehicle(ctx, service.RegisterVehicleInput{
		Chassis:      req.Chassis,
		Class:        req.Class,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		h.fail(ctx, w, err, "failed to register vehicle")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toVehicleResponse(v))
}

func (h *Handler) HandleSubmitDossier(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[SubmitDossierRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	d, err := h.service.Submit(ctx, service.SubmitInput{
		VehicleID:        req.VehicleID,
		OwnerID:          req.OwnerID,
		RepresentativeID: req.RepresentativeID,
		DepartmentID:     req.DepartmentID,
	})
	if err != nil {
		h.fail(ctx, w, err, "failed to submit dossier")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toDossierResponse(d))
}

func (h *Handler) HandleGetCase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reference, err := referenceParam(r)
	if err != nil {
		h.fail(ctx, w, err, "invalid reference")
		return
	}
	view, err := h.service.GetCase(ctx, reference)
	if err != nil {
		h.fail(ctx, w, err, "failed to load dossier")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCaseResponse(view))
}

// HandleAllocateMark attributes the next mark to the vehicle in the path.
func (h *Handler) HandleAllocateMark(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vehicleID, err := domain.ParseVehicleID(chi.URLParam(r, "vehicleID"))
	if err != nil {
		h.fail(ctx, w, err, "invalid vehicle id")
		return
	}
	att, err := h.service.AllocateMark(ctx, vehicleID)
	if err != nil {
		h.fail(ctx, w, err, "failed to allocate mark")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, AttributionResponse{
		VehicleID: att.VehicleID,
		Reference: att.Reference,
		Mark:      att.Mark,
		Status:    string(att.Status),
	})
}

func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reference, err := referenceParam(r)
	if err != nil {
		h.fail(ctx, w, err, "invalid reference")
		return
	}
	mark, err := h.service.Validate(ctx, reference)
	if err != nil {
		h.fail(ctx, w, err, "failed to validate dossier")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ValidationResponse{
		Reference: reference,
		Mark:      mark,
		Status:    string(workflow.StageValide),
	})
}

func (h *Handler) HandleReconcile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reference, err := referenceParam(r)
	if err != nil {
		h.fail(ctx, w, err, "invalid reference")
		return
	}
	res, err := h.service.Reconcile(ctx, reference)
	if err != nil {
		h.fail(ctx, w, err, "failed to reconcile dossier")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ReconcileResponse{
		Reference: res.Reference,
		Repair:    res.Repair,
		Repaired:  res.Repair != models.RepairNone,
	})
}

// HandleReconcileDepartment runs a repair pass over one department, or over
// every department when none is given.
func (h *Handler) HandleReconcileDepartment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var dept domain.DepartmentID
	if raw := r.URL.Query().Get("department"); raw != "" {
		d, err := domain.ParseDepartmentID(raw)
		if err != nil {
			h.fail(ctx, w, dErrors.Wrap(err, dErrors.CodeInvalidDepartment, "invalid department"), "invalid department")
			return
		}
		dept = d
	}
	report, err := h.service.ReconcileDepartment(ctx, dept)
	if err != nil {
		h.fail(ctx, w, err, "failed to reconcile department")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toReconcileReportResponse(report))
}

func (h *Handler) HandleListAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	filter := models.AdminFilter{
		Status: models.AdminStatus(strings.TrimSpace(q.Get("status"))),
		Search: q.Get("search"),
	}
	if raw := q.Get("department"); raw != "" {
		d, err := domain.ParseDepartmentID(raw)
		if err != nil {
			h.fail(ctx, w, dErrors.Wrap(err, dErrors.CodeInvalidDepartment, "invalid department"), "invalid department")
			return
		}
		filter.DepartmentID = d
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.fail(ctx, w, dErrors.New(dErrors.CodeValidation, "limit must be a positive integer"), "invalid limit")
			return
		}
		filter.Limit = n
	}

	listings, err := h.service.ListAdmin(ctx, filter)
	if err != nil {
		h.fail(ctx, w, err, "failed to list administrative records")
		return
	}
	resp := AdminListResponse{Records: make([]AdminRecordResponse, 0, len(listings)), Count: len(listings)}
	for i := range listings {
		resp.Records = append(resp.Records, toAdminRecordResponse(&listings[i].Record, listings[i].Chassis))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandlePeekSequence(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dept, err := domain.ParseDepartmentID(chi.URLParam(r, "department"))
	if err != nil {
		h.fail(ctx, w, dErrors.Wrap(err, dErrors.CodeInvalidDepartment, "invalid department"), "invalid department")
		return
	}
	class, err := models.ParseVehicleClass(chi.URLParam(r, "class"))
	if err != nil {
		h.fail(ctx, w, err, "invalid vehicle class")
		return
	}
	counter, err := h.service.PeekSequence(ctx, dept, class)
	if err != nil {
		h.fail(ctx, w, err, "failed to read sequence")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSequenceResponse(counter))
}

// fail logs at a level matching the error class and writes the response.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	attrs := []any{
		"request_id", request.GetRequestID(ctx),
		"code", string(dErrors.GetCode(err)),
		"error", err,
	}
	if httputil.StatusFor(dErrors.GetCode(err)) >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, attrs...)
	} else {
		h.logger.WarnContext(ctx, msg, attrs...)
	}
	httputil.WriteError(w, err)
}

func referenceParam(r *http.Request) (string, error) {
	ref := strings.TrimSpace(chi.URLParam(r, "reference"))
	if ref == "" {
		return "", dErrors.New(dErrors.CodeValidation, "reference is required")
	}
	return ref, nil
}
