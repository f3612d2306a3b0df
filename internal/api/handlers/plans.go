package handlers

import (
	"delivery-area-service/internal/api/dto"
	"delivery-area-service/internal/domain"
	"delivery-area-service/internal/platform/obs"
	"delivery-area-service/internal/ports"
	"delivery-area-service/internal/services"
	"log"
	"net/http"
)

type PlanHandler struct {
	Repo     ports.RecipientRepository
	Geocoder ports.Geocoder
	// TravelTimes is optional; without it durations stay speed-based.
	TravelTimes   ports.TravelTimeProvider
	Defaults      domain.PlanConfig
	DefaultOrigin string
}

// Plan partitions recipients into delivery areas and orders each area's stops.
// Request fields override the configured planner defaults.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.PlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	svcReq := services.PlanRecipientsRequest{
		Origin:        req.Origin,
		OriginAddress: req.OriginAddress,
		Config:        req.Apply(h.Defaults),
		Geocode:       req.Geocode,
	}
	if svcReq.Origin == nil && svcReq.OriginAddress == "" {
		svcReq.OriginAddress = h.DefaultOrigin
	}
	if req.Recipients != nil {
		svcReq.Recipients = make([]domain.Recipient, 0, len(req.Recipients))
		for _, p := range req.Recipients {
			svcReq.Recipients = append(svcReq.Recipients, p.ToDomain())
		}
	}

	plan, err := services.PlanRecipients(r.Context(), svcReq, h.Repo, h.Geocoder)
	if err != nil {
		if domain.IsInvalidInput(err) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("req_id=%s plan recipients failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	if req.RefineDurations && h.TravelTimes != nil {
		services.RefineDurations(r.Context(), plan, h.TravelTimes)
	}

	writeJSON(w, r, http.StatusOK, dto.PlanFromDomain(plan))
}
