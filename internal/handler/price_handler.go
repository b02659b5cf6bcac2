package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go-travel-planner/internal/model"
	"go-travel-planner/internal/pricing"
	"go-travel-planner/pkg/apierror"
)

type PriceHandler struct{}

func NewPriceHandler() *PriceHandler {
	return &PriceHandler{}
}

// Quote prices a trip before checkout. Unknown budget tags price at the
// neutral multiplier.
func (h *PriceHandler) Quote(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	days, err := boundedInt(query.Get("days"), "days", pricing.MaxDays)
	if err != nil {
		writeError(w, err)
		return
	}
	travelers, err := boundedInt(query.Get("travelers"), "travelers", pricing.MaxTravelers)
	if err != nil {
		writeError(w, err)
		return
	}

	budget := strings.TrimSpace(query.Get("budget"))
	if budget == "" {
		writeError(w, apierror.Validation("budget is required", "budget"))
		return
	}
	if canonical, ok := model.NormalizeBudget(budget); ok {
		budget = canonical
	}

	writeJSON(w, http.StatusOK, model.PriceResponse{Price: pricing.Price(days, budget, travelers)})
}

// boundedInt accepts the same ranges trip generation does, so a quote can
// never exceed what checkout would charge.
func boundedInt(raw string, field string, max int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, apierror.Validation(field+" is required", field)
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 || v > max {
		return 0, apierror.Validation(fmt.Sprintf("%s must be between 1 and %d", field, max), field)
	}
	return v, nil
}
