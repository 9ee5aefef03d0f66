package services

import (
	"bytes"
	"testing"
	"time"

	"travelweb/internal/domain"
	"travelweb/internal/domain/models"
)

func sampleBooking(status string) models.Booking {
	return models.Booking{
		Reference: "TRV-2026-001",
		Status:    status,
		Type:      "flight",
		Contact:   models.Contact{Name: "Ayu Lestari", Email: "ayu@example.test", Phone: "+62811"},
		Passengers: []models.Passenger{
			{Title: "Ms", FirstName: "Ayu", LastName: "Lestari", TicketNumber: "126-000111"},
			{Title: "Mr", FirstName: "Budi", LastName: "Santoso", TicketNumber: "126-000112"},
		},
		Segments: []models.Segment{
			{Carrier: "GA", FlightNumber: "408", Origin: "CGK", Destination: "DPS", DepartureTime: "2026-03-01T07:45:00+07:00", CabinClass: "economy"},
		},
		TotalAmount: 3250000,
		Currency:    "IDR",
		PNR:         "ABC123",
	}
}

func TestDocsServiceGenerateInvoice(t *testing.T) {
	svc := DocsService{Now: func() time.Time { return time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC) }}

	inv := models.Invoice{
		Number:   "INV-77",
		Currency: "IDR",
		Lines: []models.InvoiceLine{
			{Description: "Fare CGK-DPS", Quantity: 2, UnitAmount: 1500000},
			{Description: "Service fee", Amount: 250000},
		},
	}
	pdf, filename, err := svc.GenerateInvoice(inv, sampleBooking("paid"))
	if err != nil {
		t.Fatalf("GenerateInvoice returned error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("GenerateInvoice did not return a PDF")
	}
	if filename != "INVOICE_TRV-2026-001.pdf" {
		t.Fatalf("filename = %q", filename)
	}
}

func TestDocsServiceInvoiceFallsBackToBooking(t *testing.T) {
	pdf, _, err := DocsService{}.GenerateInvoice(models.Invoice{}, sampleBooking("pending"))
	if err != nil || len(pdf) == 0 {
		t.Fatalf("invoice from booking totals failed: %v", err)
	}

	_, _, err = DocsService{}.GenerateInvoice(models.Invoice{}, models.Booking{})
	if !domain.IsValidation(err) {
		t.Fatalf("missing reference should be a validation error, got %v", err)
	}
}

func TestDocsServiceGenerateETicket(t *testing.T) {
	pdf, filename, err := DocsService{}.GenerateETicket(sampleBooking("ticketed"))
	if err != nil {
		t.Fatalf("GenerateETicket returned error: %v", err)
	}
	if len(pdf) == 0 || filename != "ETICKET_TRV-2026-001.pdf" {
		t.Fatalf("GenerateETicket returned empty data (%d bytes, %q)", len(pdf), filename)
	}

	pkg := sampleBooking("completed")
	pkg.Segments = nil
	pkg.PackageTitle = "Bali 4D3N"
	if _, _, err := (DocsService{}).GenerateETicket(pkg); err != nil {
		t.Fatalf("package e-ticket failed: %v", err)
	}
}

func TestDocsServiceETicketNeedsIssuedTicket(t *testing.T) {
	for _, status := range []string{"pending", "paid", "cancelled", "unknown"} {
		_, _, err := DocsService{}.GenerateETicket(sampleBooking(status))
		if !domain.IsConflict(err) {
			t.Fatalf("status %q should be refused with conflict, got %v", status, err)
		}
	}
}

func TestTicketIssued(t *testing.T) {
	if !TicketIssued("Ticket Issued") || !TicketIssued("completed") {
		t.Fatalf("ticketed and completed should count as issued")
	}
	if TicketIssued("paid") || TicketIssued("refunded") {
		t.Fatalf("paid and refunded should not count as issued")
	}
}
