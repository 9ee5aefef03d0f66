package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"travelweb/internal/domain"
	"travelweb/internal/domain/models"
	"travelweb/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService menghasilkan PDF invoice & e-ticket dari JSON backend.
type DocsService struct {
	RequestID string
	Now       func() time.Time
}

func (s DocsService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// GenerateInvoice membuat PDF invoice; data booking dipakai sebagai fallback bila invoice kurang lengkap.
func (s DocsService) GenerateInvoice(inv models.Invoice, booking models.Booking) ([]byte, string, error) {
	ref := utils.Fallback(inv.BookingReference, booking.Reference)
	if ref == "" {
		return nil, "", domain.ValidationError{Field: "reference", Msg: "booking reference kosong"}
	}
	utils.LogEvent(s.RequestID, "docs", "generate_invoice", "reference="+ref)
	return s.buildInvoicePDF(inv, booking, ref)
}

// GenerateETicket membuat satu halaman per penumpang. Booking yang belum
// ticketed ditolak.
func (s DocsService) GenerateETicket(booking models.Booking) ([]byte, string, error) {
	if strings.TrimSpace(booking.Reference) == "" {
		return nil, "", domain.ValidationError{Field: "reference", Msg: "booking reference kosong"}
	}
	if !TicketIssued(booking.Status) {
		return nil, "", domain.ConflictError{Resource: "ticket", Msg: "tiket belum diterbitkan"}
	}
	utils.LogEvent(s.RequestID, "docs", "generate_eticket", fmt.Sprintf("reference=%s passengers=%d", booking.Reference, len(booking.Passengers)))
	return buildETicketPDF(booking)
}

// TicketIssued true bila status sudah di tahap ticketed atau sesudahnya.
func TicketIssued(status string) bool {
	idx := domain.BookingTimeline.StepIndex(status)
	return idx >= 0 && idx >= domain.BookingTimeline.StepIndex("ticketed")
}

func (s DocsService) buildInvoicePDF(inv models.Invoice, b models.Booking, ref string) ([]byte, string, error) {
	currency := utils.Fallback(inv.Currency, b.Currency)
	number := utils.Fallback(inv.Number, "INV-"+ref)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+number, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "INVOICE")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	header := []string{
		"Invoice No   : " + number,
		"Booking Ref  : " + ref,
		"Issued       : " + utils.Fallback(utils.DisplayDateTime(inv.IssuedAt), s.now().Format("02 Jan 2006 15:04")),
		"Due          : " + utils.Fallback(utils.DisplayDateTime(inv.DueAt), "-"),
		"Status       : " + strings.ToUpper(utils.Fallback(inv.Status, b.Status)),
	}
	for _, line := range header {
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Billed to:")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, utils.Fallback(b.Contact.Name, "-"))
	pdf.Ln(6)
	pdf.Cell(0, 6, utils.Fallback(b.Contact.Email, "-")+"  "+utils.Fallback(b.Contact.Phone, ""))
	pdf.Ln(10)

	lines := inv.Lines
	if len(lines) == 0 {
		lines = []models.InvoiceLine{{
			Description: bookingDescription(b),
			Quantity:    1,
			Amount:      b.TotalAmount,
		}}
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(110, 7, "Description", "B", 0, "L", false, 0, "")
	pdf.CellFormat(20, 7, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(50, 7, "Amount", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	var sum float64
	for _, l := range lines {
		qty := l.Quantity
		if qty <= 0 {
			qty = 1
		}
		total := l.Total()
		sum += total
		pdf.CellFormat(110, 6, truncate(utils.Fallback(l.Description, "-"), 60), "", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", qty), "", 0, "R", false, 0, "")
		pdf.CellFormat(50, 6, utils.FormatMoney(total, currency), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	if inv.Tax != 0 {
		pdf.CellFormat(130, 6, "Tax", "", 0, "R", false, 0, "")
		pdf.CellFormat(50, 6, utils.FormatMoney(inv.Tax.Float(), currency), "", 1, "R", false, 0, "")
	}

	// total dari backend yang dipakai; jumlah per baris hanya fallback
	grand := inv.Total.Float()
	if grand == 0 {
		grand = sum + inv.Tax.Float()
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(130, 8, "Total", "T", 0, "R", false, 0, "")
	pdf.CellFormat(50, 8, utils.FormatMoney(grand, currency), "T", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("INVOICE_%s.pdf", utils.SafeFilenamePart(ref)), nil
}

func buildETicketPDF(b models.Booking) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket "+b.Reference, false)

	passengers := b.Passengers
	if len(passengers) == 0 {
		passengers = []models.Passenger{{FirstName: b.Contact.Name}}
	}

	for _, p := range passengers {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 18)
		pdf.Cell(0, 10, "E-TICKET")
		pdf.Ln(12)

		pdf.SetFont("Helvetica", "", 12)
		lines := []string{
			"Passenger     : " + utils.Fallback(p.FullName(), "-"),
			"Ticket No     : " + utils.Fallback(p.TicketNumber, "-"),
			"Booking Ref   : " + b.Reference,
			"PNR           : " + utils.Fallback(b.PNR, "-"),
		}
		if p.Seat != "" {
			lines = append(lines, "Seat          : "+p.Seat)
		}
		for _, s := range lines {
			pdf.Cell(0, 7, s)
			pdf.Ln(7)
		}
		pdf.Ln(4)

		if len(b.Segments) > 0 {
			pdf.SetFont("Helvetica", "B", 11)
			pdf.CellFormat(30, 7, "Flight", "B", 0, "L", false, 0, "")
			pdf.CellFormat(40, 7, "From", "B", 0, "L", false, 0, "")
			pdf.CellFormat(40, 7, "To", "B", 0, "L", false, 0, "")
			pdf.CellFormat(40, 7, "Departure", "B", 0, "L", false, 0, "")
			pdf.CellFormat(30, 7, "Cabin", "B", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 10)
			for _, seg := range b.Segments {
				flight := strings.TrimSpace(seg.Carrier + " " + seg.FlightNumber)
				pdf.CellFormat(30, 6, utils.Fallback(flight, "-"), "", 0, "L", false, 0, "")
				pdf.CellFormat(40, 6, utils.Fallback(seg.Origin, "-"), "", 0, "L", false, 0, "")
				pdf.CellFormat(40, 6, utils.Fallback(seg.Destination, "-"), "", 0, "L", false, 0, "")
				pdf.CellFormat(40, 6, utils.Fallback(utils.DisplayDateTime(seg.DepartureTime), "-"), "", 0, "L", false, 0, "")
				pdf.CellFormat(30, 6, utils.Fallback(seg.CabinClass, "-"), "", 1, "L", false, 0, "")
			}
		} else {
			pdf.Cell(0, 7, "Package       : "+utils.Fallback(b.PackageTitle, "-"))
			pdf.Ln(7)
			pdf.Cell(0, 7, "Travel date   : "+utils.Fallback(utils.DisplayDateTime(b.TravelDate), "-"))
			pdf.Ln(7)
		}

		pdf.Ln(6)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(0, 5, "This e-ticket is valid for the named passenger only. Present it with a valid ID at check-in.", "", "", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("ETICKET_%s.pdf", utils.SafeFilenamePart(b.Reference)), nil
}

func bookingDescription(b models.Booking) string {
	if len(b.Segments) > 0 {
		first, last := b.Segments[0], b.Segments[len(b.Segments)-1]
		return fmt.Sprintf("Flight %s -> %s (%d pax)", utils.Fallback(first.Origin, "-"), utils.Fallback(last.Destination, "-"), max(len(b.Passengers), 1))
	}
	if b.PackageTitle != "" {
		return "Package: " + b.PackageTitle
	}
	return "Booking " + b.Reference
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
