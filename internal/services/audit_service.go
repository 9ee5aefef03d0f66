package services

import (
	"context"
	"fmt"
	"time"

	"travelweb/internal/domain/models"
	"travelweb/internal/repositories"
	"travelweb/internal/utils"
)

// AuditStore diimplementasikan oleh repositories.AuditRepository.
type AuditStore interface {
	Insert(ctx context.Context, e models.AuditEntry) (int64, error)
	List(ctx context.Context, limit, offset int) ([]models.AuditEntry, int, error)
}

var _ AuditStore = (*repositories.AuditRepository)(nil)

// AuditService mencatat aksi admin yang mengubah data. Store nil = audit mati.
type AuditService struct {
	Store AuditStore
}

func (s AuditService) Enabled() bool { return s.Store != nil }

// Record menyimpan e. Kalau gagal cukup di-log, tidak sampai ke caller.
func (s AuditService) Record(ctx context.Context, e models.AuditEntry) {
	if s.Store == nil {
		utils.LogEvent(e.RequestID, "audit", "record", fmt.Sprintf("disabled user=%s %s %s status=%d", e.UserID, e.Method, e.Path, e.UpstreamStatus))
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if _, err := s.Store.Insert(ctx, e); err != nil {
		utils.LogEvent(e.RequestID, "audit", "record", "insert failed: "+err.Error())
	}
}

func (s AuditService) List(ctx context.Context, limit, offset int) ([]models.AuditEntry, int, error) {
	if s.Store == nil {
		return nil, 0, fmt.Errorf("audit disabled")
	}
	return s.Store.List(ctx, limit, offset)
}
