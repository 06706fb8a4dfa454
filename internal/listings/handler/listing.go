package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"nestbay/internal/listings/repository"
	"nestbay/internal/listings/service"
	"nestbay/pkg/config"
	apperrors "nestbay/pkg/errors"
	httputil "nestbay/pkg/http"
	"nestbay/pkg/logger"
	"nestbay/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ListingHandler struct {
	service service.ListingService
	log     *logger.Logger
}

func NewListingHandler(service service.ListingService, log *logger.Logger) *ListingHandler {
	return &ListingHandler{
		service: service,
		log:     log,
	}
}

func (h *ListingHandler) writeErr(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *ListingHandler) badBody(w http.ResponseWriter, handler string) {
	if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
		Error: "Invalid request body",
	}); writeErr != nil {
		h.log.Error("failed to write JSON response", "handler", handler, "error", writeErr)
	}
}

func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var listing model.Listing
	if err := json.NewDecoder(r.Body).Decode(&listing); err != nil {
		h.badBody(w, "Create")
		return
	}

	if actor := httputil.Actor(r); actor != "" {
		listing.OwnerID = actor
	}

	if err := h.service.Create(r.Context(), &listing); err != nil {
		h.writeErr(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, listing); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *ListingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	listing, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeErr(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, listing); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *ListingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	filter := repository.ListingFilter{
		OwnerID: query.Get("owner_id"),
		City:    query.Get("city"),
		Status:  query.Get("status"),
	}
	// Unfiltered browsing only surfaces published listings.
	if filter.OwnerID == "" && filter.Status == "" {
		filter.Status = model.ListingPublished
	}

	limit, offset, err := pagination(query.Get("limit"), query.Get("offset"))
	if err != nil {
		h.writeErr(w, "List", err)
		return
	}

	listings, total, err := h.service.List(r.Context(), filter, limit, offset)
	if err != nil {
		h.writeErr(w, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, listings, total, limit, int(offset)); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "error", err)
	}
}

func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.ListingUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.badBody(w, "Update")
		return
	}

	listing, err := h.service.Update(r.Context(), ps.ByName("id"), httputil.Actor(r), &updates)
	if err != nil {
		h.writeErr(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, listing); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "error", err)
	}
}

func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id"), httputil.Actor(r)); err != nil {
		h.writeErr(w, "Delete", err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *ListingHandler) AddReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var review model.Review
	if err := json.NewDecoder(r.Body).Decode(&review); err != nil {
		h.badBody(w, "AddReview")
		return
	}
	review.ListingID = ps.ByName("id")
	if actor := httputil.Actor(r); actor != "" {
		review.AuthorID = actor
	}

	if err := h.service.AddReview(r.Context(), &review); err != nil {
		h.writeErr(w, "AddReview", err)
		return
	}

	if err := httputil.WriteCreated(w, review); err != nil {
		h.log.Error("failed to write created response", "handler", "AddReview", "error", err)
	}
}

func (h *ListingHandler) ListReviews(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	query := r.URL.Query()
	limit, offset, err := pagination(query.Get("limit"), query.Get("offset"))
	if err != nil {
		h.writeErr(w, "ListReviews", err)
		return
	}

	reviews, total, err := h.service.ListReviews(r.Context(), ps.ByName("id"), limit, offset)
	if err != nil {
		h.writeErr(w, "ListReviews", err)
		return
	}

	if err := httputil.WritePaginated(w, reviews, total, limit, int(offset)); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListReviews", "error", err)
	}
}

func (h *ListingHandler) SetCalendar(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		Days []model.CalendarDay `json:"days"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.badBody(w, "SetCalendar")
		return
	}

	if err := h.service.SetCalendar(r.Context(), ps.ByName("id"), httputil.Actor(r), body.Days); err != nil {
		h.writeErr(w, "SetCalendar", err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *ListingHandler) GetCalendar(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	query := r.URL.Query()

	var from, to time.Time
	var err error
	if fromStr := query.Get("from"); fromStr != "" {
		if from, err = time.Parse(time.RFC3339, fromStr); err != nil {
			h.writeErr(w, "GetCalendar", apperrors.InvalidInput("invalid from parameter, must be RFC3339"))
			return
		}
	}
	if toStr := query.Get("to"); toStr != "" {
		if to, err = time.Parse(time.RFC3339, toStr); err != nil {
			h.writeErr(w, "GetCalendar", apperrors.InvalidInput("invalid to parameter, must be RFC3339"))
			return
		}
	}

	days, err := h.service.GetCalendar(r.Context(), ps.ByName("id"), from, to)
	if err != nil {
		h.writeErr(w, "GetCalendar", err)
		return
	}

	if err := httputil.WriteSuccess(w, days); err != nil {
		h.log.Error("failed to write success response", "handler", "GetCalendar", "error", err)
	}
}

func (h *ListingHandler) AddMedia(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var item model.MediaItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		h.badBody(w, "AddMedia")
		return
	}
	item.ListingID = ps.ByName("id")

	if err := h.service.AddMedia(r.Context(), httputil.Actor(r), &item); err != nil {
		h.writeErr(w, "AddMedia", err)
		return
	}

	if err := httputil.WriteCreated(w, item); err != nil {
		h.log.Error("failed to write created response", "handler", "AddMedia", "error", err)
	}
}

func (h *ListingHandler) ListMedia(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	items, err := h.service.ListMedia(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeErr(w, "ListMedia", err)
		return
	}

	if err := httputil.WriteSuccess(w, items); err != nil {
		h.log.Error("failed to write success response", "handler", "ListMedia", "error", err)
	}
}

func pagination(limitStr, offsetStr string) (int, int64, error) {
	limit := 0
	if limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			return 0, 0, apperrors.InvalidInput(fmt.Sprintf("invalid limit parameter: %s", limitStr))
		}
	}
	limit = config.NormalizePaginationLimit(limit)

	var offset int64
	if offsetStr != "" {
		parsed, err := strconv.Atoi(offsetStr)
		if err != nil || parsed < 0 {
			return 0, 0, apperrors.InvalidInput(fmt.Sprintf("invalid offset parameter: %s", offsetStr))
		}
		offset = int64(parsed)
	}

	return limit, offset, nil
}

func (h *ListingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/listings", h.Create)
	router.GET("/api/v1/listings", h.List)
	router.GET("/api/v1/listings/:id", h.GetByID)
	router.PATCH("/api/v1/listings/:id", h.Update)
	router.DELETE("/api/v1/listings/:id", h.Delete)

	router.POST("/api/v1/listings/:id/reviews", h.AddReview)
	router.GET("/api/v1/listings/:id/reviews", h.ListReviews)
	router.PUT("/api/v1/listings/:id/calendar", h.SetCalendar)
	router.GET("/api/v1/listings/:id/calendar", h.GetCalendar)
	router.POST("/api/v1/listings/:id/media", h.AddMedia)
	router.GET("/api/v1/listings/:id/media", h.ListMedia)
}
