package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Amount menerima angka maupun string angka dari backend.
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*a = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
		if s == "" {
			*a = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*a = Amount(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*a = Amount(f)
	return nil
}

func (a Amount) Float() float64 { return float64(a) }

// Passenger adalah penumpang pada booking.
type Passenger struct {
	Title        string `json:"title"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Type         string `json:"type"`
	TicketNumber string `json:"ticketNumber"`
	Seat         string `json:"seat"`
}

// FullName menggabungkan title & nama, yang kosong dilewati.
func (p Passenger) FullName() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.Title, p.FirstName, p.LastName} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Segment satu leg penerbangan.
type Segment struct {
	FlightNumber  string `json:"flightNumber"`
	Carrier       string `json:"carrier"`
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureTime string `json:"departureTime"`
	ArrivalTime   string `json:"arrivalTime"`
	CabinClass    string `json:"cabinClass"`
}

// Contact pemesan booking.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Booking: sebagian field booking backend yang dipakai timeline & dokumen.
type Booking struct {
	Reference    string      `json:"reference"`
	Status       string      `json:"status"`
	Type         string      `json:"type"`
	Contact      Contact     `json:"contact"`
	Passengers   []Passenger `json:"passengers"`
	Segments     []Segment   `json:"segments"`
	PackageTitle string      `json:"packageTitle"`
	TravelDate   string      `json:"travelDate"`
	TotalAmount  Amount      `json:"totalAmount"`
	Currency     string      `json:"currency"`
	PNR          string      `json:"pnr"`
	CreatedAt    string      `json:"createdAt"`
	PaidAt       string      `json:"paidAt"`
}

// unwrapRecord mengembalikan isi kunci envelope pertama yang berupa objek,
// atau raw apa adanya bila tidak ada.
func unwrapRecord(raw []byte, keys ...string) []byte {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return raw
	}
	for _, k := range keys {
		v := bytes.TrimSpace(doc[k])
		if len(v) > 0 && v[0] == '{' {
			return v
		}
	}
	return raw
}

// DecodeBooking menerima objek booking langsung atau dibungkus data/booking.
// Envelope dipakai walau reference-nya kosong.
func DecodeBooking(raw []byte) (Booking, error) {
	var b Booking
	if err := json.Unmarshal(unwrapRecord(raw, "data", "booking"), &b); err != nil {
		return Booking{}, err
	}
	return b, nil
}
