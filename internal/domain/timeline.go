package domain

import "strings"

type StepState string

const (
	StepComplete StepState = "complete"
	StepCurrent  StepState = "current"
	StepUpcoming StepState = "upcoming"
)

// TimelineStep adalah satu tahap progres booking.
type TimelineStep struct {
	Key   string    `json:"key"`
	Label string    `json:"label"`
	State StepState `json:"state"`
}

// Timeline hanya membaca status dari backend, tidak pernah mengubahnya.
type Timeline struct {
	Status      string         `json:"status"`
	CurrentStep int            `json:"currentStep"`
	Terminated  bool           `json:"terminated"`
	Steps       []TimelineStep `json:"steps"`
}

type stepDef struct {
	key   string
	label string
}

// timelineTable memetakan status yang sudah dinormalisasi ke index tahap.
type timelineTable struct {
	steps   []stepDef
	indexOf map[string]int
}

var terminalStatuses = map[string]struct{}{
	"cancelled": {},
	"canceled":  {},
	"refunded":  {},
	"failed":    {},
	"expired":   {},
	"rejected":  {},
	"void":      {},
}

// BookingTimeline tampilan untuk customer.
var BookingTimeline = timelineTable{
	steps: []stepDef{
		{"requested", "Booking requested"},
		{"confirmed", "Confirmed"},
		{"paid", "Payment received"},
		{"ticketed", "Ticket issued"},
		{"completed", "Completed"},
	},
	indexOf: map[string]int{
		"requested":        0,
		"pending":          0,
		"new":              0,
		"created":          0,
		"on_hold":          0,
		"confirmed":        1,
		"awaiting_payment": 1,
		"payment_pending":  1,
		"unpaid":           1,
		"paid":             2,
		"payment_received": 2,
		"ticketing":        2,
		"processing":       2,
		"ticketed":         3,
		"issued":           3,
		"ticket_issued":    3,
		"completed":        4,
		"travelled":        4,
		"traveled":         4,
		"done":             4,
	},
}

// AdminBookingTimeline memisahkan tahap bayar dan ticketing untuk operator.
var AdminBookingTimeline = timelineTable{
	steps: []stepDef{
		{"requested", "Requested"},
		{"awaiting_payment", "Awaiting payment"},
		{"paid", "Paid"},
		{"ticketing", "Ticketing"},
		{"ticketed", "Ticketed"},
		{"completed", "Completed"},
	},
	indexOf: map[string]int{
		"requested":        0,
		"pending":          0,
		"new":              0,
		"created":          0,
		"on_hold":          0,
		"confirmed":        1,
		"awaiting_payment": 1,
		"payment_pending":  1,
		"unpaid":           1,
		"paid":             2,
		"payment_received": 2,
		"ticketing":        3,
		"processing":       3,
		"ticketed":         4,
		"issued":           4,
		"ticket_issued":    4,
		"completed":        5,
		"travelled":        5,
		"traveled":         5,
		"done":             5,
	},
}

// NormalizeStatus: huruf kecil, spasi & tanda hubung jadi underscore.
func NormalizeStatus(status string) string {
	s := strings.ToLower(strings.TrimSpace(status))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	return s
}

// IsTerminalStatus true untuk status yang keluar dari alur normal (batal, refund, dll).
func IsTerminalStatus(status string) bool {
	_, ok := terminalStatuses[NormalizeStatus(status)]
	return ok
}

// StepIndex mengembalikan index tahap, atau -1 bila status tidak dikenal.
func (t timelineTable) StepIndex(status string) int {
	if idx, ok := t.indexOf[NormalizeStatus(status)]; ok {
		return idx
	}
	return -1
}

// Build menyusun timeline untuk status.
func (t timelineTable) Build(status string) Timeline {
	idx := t.StepIndex(status)
	out := Timeline{
		Status:      status,
		CurrentStep: idx,
		Terminated:  IsTerminalStatus(status),
		Steps:       make([]TimelineStep, 0, len(t.steps)),
	}
	for i, s := range t.steps {
		state := StepUpcoming
		switch {
		case idx < 0:
		case i < idx:
			state = StepComplete
		case i == idx:
			state = StepCurrent
		}
		out.Steps = append(out.Steps, TimelineStep{Key: s.key, Label: s.label, State: state})
	}
	// tahap terakhir dianggap selesai, bukan sedang berjalan
	if idx == len(t.steps)-1 && idx >= 0 {
		out.Steps[idx].State = StepComplete
	}
	return out
}
