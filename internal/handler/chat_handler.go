package handler

import (
	"net/http"

	"go-travel-planner/internal/model"
	"go-travel-planner/internal/service"
)

type ChatHandler struct {
	service *service.ChatService
}

func NewChatHandler(service *service.ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.ChatRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	reply, err := h.service.Send(r.Context(), userID, payload.Message)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ChatReply{Reply: reply.Text, Sender: reply.Sender})
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	messages, err := h.service.History(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messages)
}
