package handler

import (
	"encoding/json"
	"net/http"

	"unispace/internal/reservations/service"
	apperrors "unispace/pkg/errors"
	httputil "unispace/pkg/http"
	"unispace/pkg/logger"
	"unispace/pkg/middleware"
	"unispace/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// createReservationRequest carries the reservation fields plus the
// requested time range; the handler splits it into the reservation and
// the schedule it will own.
type createReservationRequest struct {
	model.Reservation
	Date      string `json:"date"`
	StartCode int    `json:"start_code"`
	EndCode   int    `json:"end_code"`
}

type ReservationHandler struct {
	service service.ReservationService
	log     *logger.Logger
}

func NewReservationHandler(service service.ReservationService, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		log:     log,
	}
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/reservations", h.Create)
	router.GET("/api/v1/reservations", h.ListMine)
	router.GET("/api/v1/reservations/:id", h.GetDetail)
	router.PATCH("/api/v1/reservations/:id/review", h.Review)
	router.DELETE("/api/v1/reservations/:id", h.Delete)
}

func (h *ReservationHandler) requireIdentity(w http.ResponseWriter, r *http.Request) (model.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		if writeErr := httputil.WriteError(w, apperrors.Unauthorized("Authentication required")); writeErr != nil {
			h.log.Error("failed to write error response", "operation", "requireIdentity", "error", writeErr)
		}
		return model.Identity{}, false
	}
	return identity, true
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	var req createReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "error", writeErr)
		}
		return
	}

	reservation := req.Reservation
	schedule := &model.Schedule{
		SpaceID:   req.SpaceID,
		Date:      req.Date,
		StartCode: req.StartCode,
		EndCode:   req.EndCode,
	}

	if err := h.service.Create(r.Context(), identity, &reservation, schedule); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, reservation); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *ReservationHandler) GetDetail(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	detail, err := h.service.GetDetail(r.Context(), identity, ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetDetail", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, detail); err != nil {
		h.log.Error("failed to write success response", "handler", "GetDetail", "error", err)
	}
}

func (h *ReservationHandler) ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListMine", "error", writeErr)
		}
		return
	}

	summaries, total, err := h.service.ListMine(r.Context(), identity, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListMine", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, summaries, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListMine", "error", err)
	}
}

func (h *ReservationHandler) Review(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	var review model.ReservationReview
	if err := json.NewDecoder(r.Body).Decode(&review); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Review", "error", writeErr)
		}
		return
	}

	if err := h.service.Review(r.Context(), identity, ps.ByName("id"), &review); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Review", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ReservationHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), identity, ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}
