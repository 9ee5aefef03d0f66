package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	intdb "travelweb/internal/db"
	"travelweb/internal/domain/models"
)

const auditTable = "admin_audit_log"

type AuditRepository struct {
	DB *sql.DB

	ensureMu sync.Mutex
	ensured  bool
}

// EnsureTable membuat admin_audit_log bila belum ada. Hanya hasil sukses yang
// diingat; kegagalan dicoba lagi pada pemanggilan berikutnya.
func (r *AuditRepository) EnsureTable(ctx context.Context) error {
	r.ensureMu.Lock()
	defer r.ensureMu.Unlock()
	if r.ensured {
		return nil
	}
	if r.DB == nil {
		return fmt.Errorf("db tidak tersedia")
	}
	if intdb.HasTable(ctx, r.DB, auditTable) {
		r.ensured = true
		return nil
	}
	ddl := `
CREATE TABLE IF NOT EXISTS admin_audit_log (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	request_id VARCHAR(128) NOT NULL,
	user_id VARCHAR(128) NOT NULL,
	role VARCHAR(64) NOT NULL,
	method VARCHAR(10) NOT NULL,
	path VARCHAR(512) NOT NULL,
	upstream_status INT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_created (created_at),
	KEY idx_user (user_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`
	if _, err := r.DB.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create %s: %w", auditTable, err)
	}
	r.ensured = true
	return nil
}

func (r *AuditRepository) Insert(ctx context.Context, e models.AuditEntry) (int64, error) {
	if err := r.EnsureTable(ctx); err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO admin_audit_log (request_id, user_id, role, method, path, upstream_status)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.RequestID, e.UserID, e.Role, e.Method, e.Path, e.UpstreamStatus)
	if err != nil {
		return 0, fmt.Errorf("insert audit: %w", err)
	}
	return res.LastInsertId()
}

// List mengembalikan entri terbaru dulu plus total baris.
func (r *AuditRepository) List(ctx context.Context, limit, offset int) ([]models.AuditEntry, int, error) {
	if err := r.EnsureTable(ctx); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM admin_audit_log`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, request_id, user_id, role, method, path, upstream_status, created_at
		FROM admin_audit_log
		ORDER BY id DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list audit: %w", err)
	}
	defer rows.Close()

	out := []models.AuditEntry{}
	for rows.Next() {
		var e models.AuditEntry
		if err := rows.Scan(&e.ID, &e.RequestID, &e.UserID, &e.Role, &e.Method, &e.Path, &e.UpstreamStatus, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan audit: %w", err)
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}
