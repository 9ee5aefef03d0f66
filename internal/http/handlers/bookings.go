package handlers

import (
	"fmt"
	"net/http"

	"travelweb/internal/domain"
	"travelweb/internal/domain/models"
	"travelweb/internal/http/middleware"
	"travelweb/internal/services"
	"travelweb/internal/upstream"

	"github.com/gin-gonic/gin"
)

func (h *Handlers) bookingService(c *gin.Context) services.BookingService {
	return services.BookingService{Client: h.Client, RequestID: middleware.GetRequestID(c)}
}

func (h *Handlers) docsService(c *gin.Context) services.DocsService {
	d := h.Docs
	d.RequestID = middleware.GetRequestID(c)
	return d
}

// jsonGet reads a backend document the gateway decodes itself, so the
// browser's Accept and query string are not passed on.
func jsonGet(c *gin.Context, path string) upstream.Request {
	req := upstreamRequest(c, http.MethodGet, path, nil)
	req.RawQuery = ""
	req.Header = c.Request.Header.Clone()
	if req.Header == nil {
		req.Header = http.Header{}
	}
	req.Header.Set("Accept", "application/json")
	return req
}

// fetchBooking loads the booking behind :reference. ok is false when a
// response has already been written.
func (h *Handlers) fetchBooking(c *gin.Context, path string) (models.Booking, bool) {
	res, b, err := h.bookingService(c).Fetch(c.Request.Context(), jsonGet(c, path))
	if err != nil {
		RespondDomainError(c, err)
		return models.Booking{}, false
	}
	if !res.OK() {
		relay(c, res)
		return models.Booking{}, false
	}
	if b.Reference == "" {
		b.Reference = c.Param("reference")
	}
	return b, true
}

// BookingTimeline renders the customer status timeline of one booking.
func (h *Handlers) BookingTimeline(c *gin.Context) {
	h.timeline(c, upstream.PathEscape("bookings", c.Param("reference")), false)
}

// AdminBookingTimeline renders the admin status timeline of one booking.
func (h *Handlers) AdminBookingTimeline(c *gin.Context) {
	h.timeline(c, upstream.PathEscape("admin", "bookings", c.Param("reference")), true)
}

func (h *Handlers) timeline(c *gin.Context, path string, admin bool) {
	b, ok := h.fetchBooking(c, path)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reference": b.Reference,
		"timeline":  services.Timeline(b, admin),
	})
}

// InvoicePDF renders the invoice of a booking. A backend 404 on the invoice
// falls back to the booking totals.
func (h *Handlers) InvoicePDF(c *gin.Context) {
	ref := c.Param("reference")
	b, ok := h.fetchBooking(c, upstream.PathEscape("bookings", ref))
	if !ok {
		return
	}

	res, inv, err := h.bookingService(c).FetchInvoice(c.Request.Context(), jsonGet(c, upstream.PathEscape("bookings", ref, "invoice")))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if !res.OK() && res.Status != http.StatusNotFound {
		relay(c, res)
		return
	}

	pdf, filename, err := h.docsService(c).GenerateInvoice(inv, b)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	writePDF(c, pdf, filename)
}

// ETicketPDF renders the e-ticket once the booking is ticketed.
func (h *Handlers) ETicketPDF(c *gin.Context) {
	b, ok := h.fetchBooking(c, upstream.PathEscape("bookings", c.Param("reference")))
	if !ok {
		return
	}
	pdf, filename, err := h.docsService(c).GenerateETicket(b)
	if err != nil {
		if domain.IsConflict(err) {
			respondError(c, http.StatusConflict, "ticket_not_issued", err.Error(), gin.H{"status": b.Status})
			return
		}
		RespondDomainError(c, err)
		return
	}
	writePDF(c, pdf, filename)
}

func writePDF(c *gin.Context, pdf []byte, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
	c.Header("Cache-Control", "private, no-store")
	c.Data(http.StatusOK, "application/pdf", pdf)
}
