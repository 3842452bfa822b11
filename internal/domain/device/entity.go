package device

import "time"

type AttendanceDevice struct {
	ID         string
	Name       string
	DeviceCode string

	// DeviceType: 'biometric', 'rfid', 'terminal', etc.
	DeviceType string
	Location   *string

	// APIKeyHash is the bcrypt hash of the key the device presents when
	// pushing punches. nil means the device cannot push.
	APIKeyHash *string

	IsActive   bool
	Status     string
	LastSeenAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
