// Package handler exposes the estimation engine over HTTP. Routing is a
// plain path switch; every response body is JSON.
package handler

import (
	"errors"

	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"mortality-engine/internal/engine"
	"mortality-engine/internal/model"
	"mortality-engine/internal/refdata"
	"mortality-engine/internal/shorthorizon"
)

// Handler routes API requests to the engine and auxiliary models.
type Handler struct {
	engine *engine.Engine
	short  *shorthorizon.Model
	repo   *refdata.Repository
	logger *zap.Logger
}

func New(e *engine.Engine, short *shorthorizon.Model, repo *refdata.Repository, logger *zap.Logger) *Handler {
	return &Handler{engine: e, short: short, repo: repo, logger: logger}
}

// Route is the fasthttp entry point.
func (h *Handler) Route(ctx *fasthttp.RequestCtx) {
	switch string(ctx.Path()) {
	case "/api/health":
		h.requireMethod(ctx, fasthttp.MethodGet, h.handleHealth)
	case "/api/estimate":
		h.requireMethod(ctx, fasthttp.MethodPost, h.handleEstimate)
	case "/api/validate":
		h.requireMethod(ctx, fasthttp.MethodPost, h.handleValidate)
	case "/api/short-horizon":
		h.requireMethod(ctx, fasthttp.MethodPost, h.handleShortHorizon)
	case "/api/interventions":
		h.requireMethod(ctx, fasthttp.MethodPost, h.handleInterventions)
	case "/api/data-status":
		h.requireMethod(ctx, fasthttp.MethodGet, h.handleDataStatus)
	default:
		h.writeError(ctx, fasthttp.StatusNotFound, "Not found", nil)
	}
}

func (h *Handler) requireMethod(ctx *fasthttp.RequestCtx, method string, next func(*fasthttp.RequestCtx)) {
	if string(ctx.Method()) != method {
		h.writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed", nil)
		return
	}
	next(ctx)
}

func (h *Handler) handleHealth(ctx *fasthttp.RequestCtx) {
	h.writeJSON(ctx, fasthttp.StatusOK, map[string]string{
		"status":        "ok",
		"model_version": engine.ModelVersion,
	})
}

func (h *Handler) handleEstimate(ctx *fasthttp.RequestCtx) {
	var req model.EstimateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error(), nil)
		return
	}

	res, err := h.engine.Estimate(ctx, &req)
	if err != nil {
		h.writeTaxonomyError(ctx, err)
		return
	}
	h.writeJSON(ctx, fasthttp.StatusOK, res)
}

// handleValidate checks a profile without running the estimation. A valid
// profile returns {"valid": true}; an invalid one returns 200 with the full
// field list, since validation itself succeeded.
func (h *Handler) handleValidate(ctx *fasthttp.RequestCtx) {
	var p model.Profile
	if err := json.Unmarshal(ctx.PostBody(), &p); err != nil {
		h.writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error(), nil)
		return
	}

	type validation struct {
		Valid  bool               `json:"valid"`
		Fields []model.FieldError `json:"fields,omitempty"`
	}
	if err := p.Validate(); err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			h.writeJSON(ctx, fasthttp.StatusOK, validation{Valid: false, Fields: verr.Fields})
			return
		}
		h.writeTaxonomyError(ctx, err)
		return
	}
	h.writeJSON(ctx, fasthttp.StatusOK, validation{Valid: true})
}

func (h *Handler) handleShortHorizon(ctx *fasthttp.RequestCtx) {
	var in model.ShortHorizonInput
	if err := json.Unmarshal(ctx.PostBody(), &in); err != nil {
		h.writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error(), nil)
		return
	}

	res, err := h.short.Score(&in)
	if err != nil {
		h.writeTaxonomyError(ctx, err)
		return
	}
	h.writeJSON(ctx, fasthttp.StatusOK, res)
}

func (h *Handler) handleInterventions(ctx *fasthttp.RequestCtx) {
	var req model.InterventionRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error(), nil)
		return
	}
	if len(req.Interventions) == 0 {
		h.writeError(ctx, fasthttp.StatusBadRequest, "At least one intervention is required", nil)
		return
	}

	res, err := h.engine.ModelInterventions(ctx, &req)
	if err != nil {
		h.writeTaxonomyError(ctx, err)
		return
	}
	h.writeJSON(ctx, fasthttp.StatusOK, res)
}

func (h *Handler) handleDataStatus(ctx *fasthttp.RequestCtx) {
	h.writeJSON(ctx, fasthttp.StatusOK, h.repo.Status())
}

// writeTaxonomyError maps engine errors to HTTP statuses: invalid input is
// the caller's fault, a lookup miss means the table has no such row, and
// corrupt reference data makes the whole service unavailable.
func (h *Handler) writeTaxonomyError(ctx *fasthttp.RequestCtx, err error) {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		h.writeError(ctx, fasthttp.StatusBadRequest, verr.Error(), verr.Fields)
		return
	}
	var miss *model.LookupMissError
	if errors.As(err, &miss) {
		h.writeError(ctx, fasthttp.StatusNotFound, miss.Error(), nil)
		return
	}
	var integrity *model.DataIntegrityError
	if errors.As(err, &integrity) {
		h.writeError(ctx, fasthttp.StatusServiceUnavailable, integrity.Error(), nil)
		return
	}
	h.logger.Error("estimation failed", zap.Error(err))
	h.writeError(ctx, fasthttp.StatusInternalServerError, "Internal error", nil)
}

func (h *Handler) writeJSON(ctx *fasthttp.RequestCtx, status int, body any) {
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	if err := json.NewEncoder(ctx).Encode(body); err != nil {
		h.logger.Error("encoding response", zap.Error(err))
	}
}

func (h *Handler) writeError(ctx *fasthttp.RequestCtx, status int, message string, fields []model.FieldError) {
	h.writeJSON(ctx, status, model.ErrorResponse{
		Status:  status,
		Message: message,
		Fields:  fields,
	})
}
