package models

import "encoding/json"

// InvoiceLine satu item tagihan.
type InvoiceLine struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitAmount  Amount `json:"unitAmount"`
	Amount      Amount `json:"amount"`
}

// Total mengembalikan Amount, atau quantity * unit bila backend tidak mengirimnya.
func (l InvoiceLine) Total() float64 {
	if l.Amount != 0 {
		return l.Amount.Float()
	}
	q := l.Quantity
	if q <= 0 {
		q = 1
	}
	return float64(q) * l.UnitAmount.Float()
}

// Invoice: sebagian field invoice backend yang dicetak ke PDF.
type Invoice struct {
	Number           string        `json:"number"`
	BookingReference string        `json:"bookingReference"`
	Status           string        `json:"status"`
	IssuedAt         string        `json:"issuedAt"`
	DueAt            string        `json:"dueAt"`
	Currency         string        `json:"currency"`
	Lines            []InvoiceLine `json:"lines"`
	Subtotal         Amount        `json:"subtotal"`
	Tax              Amount        `json:"tax"`
	Total            Amount        `json:"total"`
}

// DecodeInvoice menerima objek invoice langsung atau dibungkus data/invoice.
func DecodeInvoice(raw []byte) (Invoice, error) {
	var inv Invoice
	if err := json.Unmarshal(unwrapRecord(raw, "data", "invoice"), &inv); err != nil {
		return Invoice{}, err
	}
	return inv, nil
}
