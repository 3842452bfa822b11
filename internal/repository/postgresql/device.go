package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mir-hr/attendance-backend-go/internal/domain/device"
	"github.com/mir-hr/attendance-backend-go/internal/pkg/database"
)

type deviceRepository struct {
	db *database.DB
}

func NewDeviceRepository(db *database.DB) device.DeviceRepository {
	return &deviceRepository{db: db}
}

// GetByCode implements device.DeviceRepository.
func (r *deviceRepository) GetByCode(ctx context.Context, code string) (device.AttendanceDevice, error) {
	query := `
		SELECT id, name, device_code, device_type, location, api_key_hash,
		       is_active, status, last_seen_at, created_at, updated_at
		FROM attendance_devices
		WHERE device_code = $1
	`
	var dev device.AttendanceDevice
	err := r.db.QueryRow(ctx, query, code).Scan(
		&dev.ID, &dev.Name, &dev.DeviceCode, &dev.DeviceType, &dev.Location,
		&dev.APIKeyHash, &dev.IsActive, &dev.Status, &dev.LastSeenAt,
		&dev.CreatedAt, &dev.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return device.AttendanceDevice{}, device.ErrDeviceNotFound
		}
		return device.AttendanceDevice{}, fmt.Errorf("failed to get device by code: %w", err)
	}
	return dev, nil
}

// TouchLastSeen implements device.DeviceRepository.
func (r *deviceRepository) TouchLastSeen(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE attendance_devices SET last_seen_at = $2, updated_at = now() WHERE id = $1
	`, id, at)
	if err != nil {
		return fmt.Errorf("failed to touch device last-seen: %w", err)
	}
	return nil
}
