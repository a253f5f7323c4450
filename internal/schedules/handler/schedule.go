package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"unispace/internal/schedules/service"
	apperrors "unispace/pkg/errors"
	httputil "unispace/pkg/http"
	"unispace/pkg/logger"
	"unispace/pkg/middleware"
	"unispace/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ScheduleHandler struct {
	service service.ScheduleService
	log     *logger.Logger
}

func NewScheduleHandler(service service.ScheduleService, log *logger.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		service: service,
		log:     log,
	}
}

func (h *ScheduleHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/schedules/:id", h.GetByID)
	router.PATCH("/api/v1/schedules/:id", h.Update)
	router.GET("/api/v1/schedules/:id/hours", h.HourCodes)
	router.GET("/api/v1/spaces/:id/schedules", h.ListBySpace)
	router.GET("/api/v1/spaces/:id/availability", h.Availability)
}

func (h *ScheduleHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	schedule, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, schedule); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *ScheduleHandler) requireIdentity(w http.ResponseWriter, r *http.Request) (model.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		if writeErr := httputil.WriteError(w, apperrors.Unauthorized("Authentication required")); writeErr != nil {
			h.log.Error("failed to write error response", "operation", "requireIdentity", "error", writeErr)
		}
		return model.Identity{}, false
	}
	return identity, true
}

func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	var updates model.ScheduleUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "error", writeErr)
		}
		return
	}

	if err := h.service.Update(r.Context(), identity, ps.ByName("id"), &updates); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ScheduleHandler) HourCodes(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	codes, err := h.service.HourCodes(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "HourCodes", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, map[string]any{"hour_codes": codes}); err != nil {
		h.log.Error("failed to write success response", "handler", "HourCodes", "error", err)
	}
}

func (h *ScheduleHandler) ListBySpace(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	date := r.URL.Query().Get("date")

	schedules, err := h.service.GetBySpaceAndDate(r.Context(), ps.ByName("id"), date)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListBySpace", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, schedules); err != nil {
		h.log.Error("failed to write success response", "handler", "ListBySpace", "error", err)
	}
}

func (h *ScheduleHandler) Availability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	query := r.URL.Query()
	date := query.Get("date")

	startCode, err := strconv.Atoi(query.Get("start_code"))
	if err != nil {
		h.writeInvalidParam(w, "start_code", query.Get("start_code"))
		return
	}
	endCode, err := strconv.Atoi(query.Get("end_code"))
	if err != nil {
		h.writeInvalidParam(w, "end_code", query.Get("end_code"))
		return
	}

	locked, err := h.service.IsLocked(r.Context(), ps.ByName("id"), date, startCode, endCode, query.Get("exclude_id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Availability", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, map[string]any{"locked": locked}); err != nil {
		h.log.Error("failed to write success response", "handler", "Availability", "error", err)
	}
}

func (h *ScheduleHandler) writeInvalidParam(w http.ResponseWriter, name, value string) {
	err := apperrors.InvalidInput(fmt.Sprintf("invalid %s parameter: %s", name, value))
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", "Availability", "error", writeErr)
	}
}
