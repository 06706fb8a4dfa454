package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"nestbay/internal/kyc/service"
	"nestbay/pkg/config"
	apperrors "nestbay/pkg/errors"
	httputil "nestbay/pkg/http"
	"nestbay/pkg/logger"
	"nestbay/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type KYCHandler struct {
	service service.KYCService
	log     *logger.Logger
}

func NewKYCHandler(service service.KYCService, log *logger.Logger) *KYCHandler {
	return &KYCHandler{
		service: service,
		log:     log,
	}
}

func (h *KYCHandler) writeErr(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *KYCHandler) Submit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var request model.KYCRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Submit", "error", writeErr)
		}
		return
	}

	if actor := httputil.Actor(r); actor != "" {
		request.UserID = actor
	}

	if err := h.service.Submit(r.Context(), &request); err != nil {
		h.writeErr(w, "Submit", err)
		return
	}

	if err := httputil.WriteCreated(w, request); err != nil {
		h.log.Error("failed to write created response", "handler", "Submit", "error", err)
	}
}

func (h *KYCHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	request, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeErr(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, request); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *KYCHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	userID := query.Get("user_id")
	if userID == "" {
		h.writeErr(w, "List", apperrors.InvalidInput("'user_id' query parameter is required"))
		return
	}

	limit := 0
	if limitStr := query.Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			h.writeErr(w, "List", apperrors.InvalidInput(fmt.Sprintf("invalid limit parameter: %s", limitStr)))
			return
		}
	}
	limit = config.NormalizePaginationLimit(limit)

	var offset int64
	if offsetStr := query.Get("offset"); offsetStr != "" {
		parsed, err := strconv.Atoi(offsetStr)
		if err != nil || parsed < 0 {
			h.writeErr(w, "List", apperrors.InvalidInput(fmt.Sprintf("invalid offset parameter: %s", offsetStr)))
			return
		}
		offset = int64(parsed)
	}

	requests, total, err := h.service.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		h.writeErr(w, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, requests, total, limit, int(offset)); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "error", err)
	}
}

func (h *KYCHandler) Review(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.KYCStatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Review", "error", writeErr)
		}
		return
	}

	request, err := h.service.Review(r.Context(), ps.ByName("id"), httputil.Actor(r), &update)
	if err != nil {
		h.writeErr(w, "Review", err)
		return
	}

	if err := httputil.WriteSuccess(w, request); err != nil {
		h.log.Error("failed to write success response", "handler", "Review", "error", err)
	}
}

func (h *KYCHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/kyc", h.Submit)
	router.GET("/api/v1/kyc", h.List)
	router.GET("/api/v1/kyc/:id", h.GetByID)
	router.PATCH("/api/v1/kyc/:id/status", h.Review)
}
