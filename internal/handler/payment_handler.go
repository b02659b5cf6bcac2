package handler

import (
	"net/http"

	"go-travel-planner/internal/model"
	"go-travel-planner/internal/service"
)

type PaymentHandler struct {
	service *service.PaymentService
}

func NewPaymentHandler(service *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

func (h *PaymentHandler) Pay(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.PayRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.service.Pay(r.Context(), userID, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	message := "Payment completed"
	if res.AlreadyPaid {
		message = "Trip was already paid"
	}

	writeJSON(w, http.StatusOK, model.PaymentResponse{
		Success:       true,
		Message:       message,
		TransactionID: res.TransactionID,
		AlreadyPaid:   res.AlreadyPaid,
		Trip:          res.Trip,
	})
}
