package dto

import "delivery-area-service/internal/domain"

// RecipientPayload is the wire form of a recipient. Coordinates are optional;
// a recipient counts as resolved only when both lat and lng are present.
type RecipientPayload struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Address string   `json:"address,omitempty"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
}

type ListRecipientsResponse struct {
	Recipients []RecipientPayload `json:"recipients"`
}

type SaveRecipientsRequest struct {
	Recipients []RecipientPayload `json:"recipients"`
}

type SaveRecipientsResponse struct {
	Saved int `json:"saved"`
}

func (p RecipientPayload) ToDomain() domain.Recipient {
	r := domain.Recipient{ID: p.ID, Name: p.Name, Address: p.Address}
	if p.Lat != nil && p.Lng != nil {
		r.Location = &domain.GeoPoint{Lat: *p.Lat, Lng: *p.Lng}
	}
	return r
}

func RecipientFromDomain(r domain.Recipient) RecipientPayload {
	p := RecipientPayload{ID: r.ID, Name: r.Name, Address: r.Address}
	if r.Location != nil {
		lat, lng := r.Location.Lat, r.Location.Lng
		p.Lat, p.Lng = &lat, &lng
	}
	return p
}

func RecipientsFromDomain(rs []domain.Recipient) []RecipientPayload {
	out := make([]RecipientPayload, 0, len(rs))
	for _, r := range rs {
		out = append(out, RecipientFromDomain(r))
	}
	return out
}
