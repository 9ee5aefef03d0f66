package models

import "time"

// AuditEntry satu aksi admin (mutasi) yang diteruskan ke backend.
type AuditEntry struct {
	ID             int64     `json:"id"`
	RequestID      string    `json:"request_id"`
	UserID         string    `json:"user_id"`
	Role           string    `json:"role"`
	Method         string    `json:"method"`
	Path           string    `json:"path"`
	UpstreamStatus int       `json:"upstream_status"`
	CreatedAt      time.Time `json:"created_at"`
}
