package handler

import (
	"encoding/json"
	"net/http"

	"nestbay/internal/profiles/service"
	httputil "nestbay/pkg/http"
	"nestbay/pkg/logger"
	"nestbay/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ProfileHandler struct {
	service service.ProfileService
	log     *logger.Logger
}

func NewProfileHandler(service service.ProfileService, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		service: service,
		log:     log,
	}
}

func (h *ProfileHandler) writeErr(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var profile model.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if actor := httputil.Actor(r); actor != "" {
		profile.UserID = actor
	}

	if err := h.service.Create(r.Context(), &profile); err != nil {
		h.writeErr(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, profile); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *ProfileHandler) GetByUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	profile, err := h.service.GetByUser(r.Context(), ps.ByName("user_id"))
	if err != nil {
		h.writeErr(w, "GetByUser", err)
		return
	}

	if err := httputil.WriteSuccess(w, profile); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByUser", "error", err)
	}
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "error", writeErr)
		}
		return
	}

	profile, err := h.service.Update(r.Context(), ps.ByName("user_id"), &updates)
	if err != nil {
		h.writeErr(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, profile); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "error", err)
	}
}

func (h *ProfileHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/profiles", h.Create)
	router.GET("/api/v1/profiles/:user_id", h.GetByUser)
	router.PATCH("/api/v1/profiles/:user_id", h.Update)
}
