package services

import (
	"context"
	"fmt"

	"travelweb/internal/domain"
	"travelweb/internal/domain/models"
	"travelweb/internal/upstream"
	"travelweb/internal/utils"
)

// BookingService membaca booking dari backend untuk tampilan yang disusun gateway.
type BookingService struct {
	Client    *upstream.Client
	RequestID string
}

// Fetch memuat booking. Response non-2xx dikembalikan dengan booking kosong &
// error nil supaya caller bisa merelay apa adanya.
func (s BookingService) Fetch(ctx context.Context, req upstream.Request) (*upstream.Response, models.Booking, error) {
	req.RequestID = s.RequestID
	res, err := s.Client.Do(ctx, req)
	if err != nil {
		return nil, models.Booking{}, err
	}
	if !res.OK() {
		return res, models.Booking{}, nil
	}
	b, err := models.DecodeBooking(res.Body)
	if err != nil {
		utils.LogEvent(s.RequestID, "booking", "fetch", fmt.Sprintf("decode %s failed: %v", req.Path, err))
		return nil, models.Booking{}, domain.UpstreamError{Op: "decode booking", Status: res.Status, Err: err}
	}
	return res, b, nil
}

// FetchInvoice memuat invoice booking, kontraknya sama dengan Fetch.
func (s BookingService) FetchInvoice(ctx context.Context, req upstream.Request) (*upstream.Response, models.Invoice, error) {
	req.RequestID = s.RequestID
	res, err := s.Client.Do(ctx, req)
	if err != nil {
		return nil, models.Invoice{}, err
	}
	if !res.OK() {
		return res, models.Invoice{}, nil
	}
	inv, err := models.DecodeInvoice(res.Body)
	if err != nil {
		return nil, models.Invoice{}, domain.UpstreamError{Op: "decode invoice", Status: res.Status, Err: err}
	}
	return res, inv, nil
}

// Timeline menyusun status booking memakai tabel customer atau admin.
func Timeline(b models.Booking, admin bool) domain.Timeline {
	if admin {
		return domain.AdminBookingTimeline.Build(b.Status)
	}
	return domain.BookingTimeline.Build(b.Status)
}
