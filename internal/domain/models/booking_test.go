package models

import "testing"

func TestDecodeBookingEnvelopes(t *testing.T) {
	bare := []byte(`{"reference":"TRV-1","status":"paid","totalAmount":"1,250,000","currency":"IDR"}`)
	wrapped := []byte(`{"data":{"reference":"TRV-1","status":"paid","totalAmount":1250000,"currency":"IDR"}}`)

	for name, raw := range map[string][]byte{"bare": bare, "wrapped": wrapped} {
		b, err := DecodeBooking(raw)
		if err != nil {
			t.Fatalf("%s: decode error: %v", name, err)
		}
		if b.Reference != "TRV-1" || b.Status != "paid" {
			t.Fatalf("%s: unexpected booking %+v", name, b)
		}
		if b.TotalAmount.Float() != 1250000 {
			t.Fatalf("%s: total = %v", name, b.TotalAmount)
		}
	}
}

func TestDecodeBookingEnvelopeWithoutReference(t *testing.T) {
	for _, raw := range []string{
		`{"data":{"bookingReference":"TRV1","status":"ticketed"}}`,
		`{"booking":{"status":"ticketed","pnr":"ABC123"}}`,
	} {
		b, err := DecodeBooking([]byte(raw))
		if err != nil {
			t.Fatalf("%s: decode error: %v", raw, err)
		}
		if b.Status != "ticketed" {
			t.Fatalf("%s: status = %q, want ticketed", raw, b.Status)
		}
	}
}

func TestDecodeBookingIgnoresNonObjectData(t *testing.T) {
	b, err := DecodeBooking([]byte(`{"reference":"TRV-2","status":"paid","data":null}`))
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if b.Reference != "TRV-2" || b.Status != "paid" {
		t.Fatalf("unexpected booking %+v", b)
	}
}

func TestDecodeInvoiceEnvelopeWithoutNumber(t *testing.T) {
	inv, err := DecodeInvoice([]byte(`{"invoice":{"status":"issued","total":"500,000","currency":"IDR"}}`))
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if inv.Status != "issued" || inv.Total.Float() != 500000 {
		t.Fatalf("unexpected invoice %+v", inv)
	}
}

func TestAmountRejectsGarbage(t *testing.T) {
	if _, err := DecodeBooking([]byte(`{"reference":"X","totalAmount":"abc"}`)); err == nil {
		t.Fatalf("expected error for non-numeric amount")
	}
	if _, err := DecodeBooking([]byte(`{"data":{"reference":"X","totalAmount":"abc"}}`)); err == nil {
		t.Fatalf("expected error for non-numeric amount inside envelope")
	}
}

func TestInvoiceLineTotal(t *testing.T) {
	l := InvoiceLine{Quantity: 3, UnitAmount: 100}
	if l.Total() != 300 {
		t.Fatalf("Total = %v, want 300", l.Total())
	}
	l.Amount = 250
	if l.Total() != 250 {
		t.Fatalf("explicit amount should win, got %v", l.Total())
	}
}

func TestPassengerFullName(t *testing.T) {
	p := Passenger{Title: "Ms", FirstName: " Ayu ", LastName: ""}
	if got := p.FullName(); got != "Ms Ayu" {
		t.Fatalf("FullName = %q", got)
	}
}
