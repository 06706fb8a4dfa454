package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"nestbay/internal/chats/service"
	"nestbay/pkg/config"
	apperrors "nestbay/pkg/errors"
	httputil "nestbay/pkg/http"
	"nestbay/pkg/logger"
	"nestbay/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ChatHandler struct {
	service service.ChatService
	log     *logger.Logger
}

func NewChatHandler(service service.ChatService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		log:     log,
	}
}

func (h *ChatHandler) writeErr(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *ChatHandler) badBody(w http.ResponseWriter, handler string) {
	if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
		Error: "Invalid request body",
	}); writeErr != nil {
		h.log.Error("failed to write JSON response", "handler", handler, "error", writeErr)
	}
}

func (h *ChatHandler) CreateConversation(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var conversation model.Conversation
	if err := json.NewDecoder(r.Body).Decode(&conversation); err != nil {
		h.badBody(w, "CreateConversation")
		return
	}

	if err := h.service.CreateConversation(r.Context(), &conversation); err != nil {
		h.writeErr(w, "CreateConversation", err)
		return
	}

	if err := httputil.WriteCreated(w, conversation); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateConversation", "error", err)
	}
}

func (h *ChatHandler) ListConversations(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	userID := query.Get("user_id")
	if userID == "" {
		userID = httputil.Actor(r)
	}
	if userID == "" {
		h.writeErr(w, "ListConversations", apperrors.InvalidInput("'user_id' query parameter is required"))
		return
	}

	limit, offset, err := pagination(query.Get("limit"), query.Get("offset"))
	if err != nil {
		h.writeErr(w, "ListConversations", err)
		return
	}

	conversations, total, err := h.service.ListConversations(r.Context(), userID, limit, offset)
	if err != nil {
		h.writeErr(w, "ListConversations", err)
		return
	}

	if err := httputil.WritePaginated(w, conversations, total, limit, int(offset)); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListConversations", "error", err)
	}
}

func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var message model.ChatMessage
	if err := json.NewDecoder(r.Body).Decode(&message); err != nil {
		h.badBody(w, "PostMessage")
		return
	}
	message.ConversationID = ps.ByName("id")
	if actor := httputil.Actor(r); actor != "" {
		message.SenderID = actor
	}

	if err := h.service.PostMessage(r.Context(), &message); err != nil {
		h.writeErr(w, "PostMessage", err)
		return
	}

	if err := httputil.WriteCreated(w, message); err != nil {
		h.log.Error("failed to write created response", "handler", "PostMessage", "error", err)
	}
}

func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	query := r.URL.Query()
	limit, offset, err := pagination(query.Get("limit"), query.Get("offset"))
	if err != nil {
		h.writeErr(w, "ListMessages", err)
		return
	}

	messages, total, err := h.service.ListMessages(r.Context(), ps.ByName("id"), httputil.Actor(r), limit, offset)
	if err != nil {
		h.writeErr(w, "ListMessages", err)
		return
	}

	if err := httputil.WritePaginated(w, messages, total, limit, int(offset)); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListMessages", "error", err)
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

func (h *ChatHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/conversations", h.CreateConversation)
	router.GET("/api/v1/conversations", h.ListConversations)
	router.POST("/api/v1/conversations/:id/messages", h.PostMessage)
	router.GET("/api/v1/conversations/:id/messages", h.ListMessages)
}
