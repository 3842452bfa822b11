package device

import (
	"context"
	"time"
)

type DeviceRepository interface {
	// GetByCode retrieves a device by its external device code.
	GetByCode(ctx context.Context, code string) (AttendanceDevice, error)

	// TouchLastSeen records the last time the device pushed a punch.
	TouchLastSeen(ctx context.Context, id string, at time.Time) error
}
