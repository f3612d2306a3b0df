package handlers

import (
	"delivery-area-service/internal/api/dto"
	"delivery-area-service/internal/domain"
	"delivery-area-service/internal/platform/obs"
	"delivery-area-service/internal/ports"
	"fmt"
	"log"
	"net/http"
	"strings"
)

// RecipientHandler exposes the stored recipient list.
type RecipientHandler struct {
	Repo ports.RecipientRepository
}

// Recipients dispatches GET (list) and POST (upsert) on one path.
func (h *RecipientHandler) Recipients(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.List(w, r)
	case http.MethodPost:
		h.Save(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *RecipientHandler) List(w http.ResponseWriter, r *http.Request) {
	recipients, err := h.Repo.ListRecipients(r.Context())
	if err != nil {
		log.Printf("req_id=%s list recipients failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ListRecipientsResponse{
		Recipients: dto.RecipientsFromDomain(recipients),
	})
}

func (h *RecipientHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req dto.SaveRecipientsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Recipients) == 0 {
		writeError(w, r, http.StatusBadRequest, "recipients must not be empty")
		return
	}

	seen := make(map[string]struct{}, len(req.Recipients))
	recipients := make([]domain.Recipient, 0, len(req.Recipients))
	for i, p := range req.Recipients {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("recipients[%d]: id is required", i))
			return
		}
		if _, dup := seen[id]; dup {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("recipients[%d]: duplicate id %q", i, id))
			return
		}
		seen[id] = struct{}{}

		rec := p.ToDomain()
		rec.ID = id
		if rec.Location != nil {
			if err := rec.Location.Validate(fmt.Sprintf("recipients[%d]", i)); err != nil {
				writeError(w, r, http.StatusBadRequest, err.Error())
				return
			}
		}
		recipients = append(recipients, rec)
	}

	if err := h.Repo.SaveRecipients(r.Context(), recipients); err != nil {
		log.Printf("req_id=%s save recipients failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.SaveRecipientsResponse{Saved: len(recipients)})
}
