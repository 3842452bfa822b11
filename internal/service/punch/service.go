package punch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mir-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/mir-hr/attendance-backend-go/internal/domain/device"
	"github.com/mir-hr/attendance-backend-go/internal/domain/employee"
	"github.com/mir-hr/attendance-backend-go/internal/pkg/validator"
	"golang.org/x/crypto/bcrypt"
)

// Service is the single funnel for punches: device pushes, CSV imports
// and manual missing-punch corrections all arrive here as
// (employee_code, device_code, direction, timestamp) and leave as
// unprocessed PunchEvents for the reconciler.
type Service struct {
	punchRepo    attendance.PunchEventRepository
	employeeRepo employee.EmployeeRepository
	deviceRepo   device.DeviceRepository
}

func NewService(
	punchRepo attendance.PunchEventRepository,
	employeeRepo employee.EmployeeRepository,
	deviceRepo device.DeviceRepository,
) *Service {
	return &Service{
		punchRepo:    punchRepo,
		employeeRepo: employeeRepo,
		deviceRepo:   deviceRepo,
	}
}

// Punch implements attendance.IngestionService.
func (s *Service) Punch(ctx context.Context, req *attendance.PunchRequest) (*attendance.PunchResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	dev, err := s.deviceRepo.GetByCode(ctx, req.DeviceCode)
	if err != nil {
		return nil, fmt.Errorf("resolve device %q: %w", req.DeviceCode, err)
	}
	if !dev.IsActive {
		return nil, device.ErrDeviceInactive
	}
	if dev.APIKeyHash == nil {
		return nil, device.ErrInvalidAPIKey
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*dev.APIKeyHash), []byte(req.APIKey)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, device.ErrInvalidAPIKey
		}
		return nil, fmt.Errorf("verify device key: %w", err)
	}

	emp, err := s.employeeRepo.GetByCode(ctx, req.EmployeeCode)
	if err != nil {
		return nil, fmt.Errorf("resolve employee %q: %w", req.EmployeeCode, err)
	}

	timestamp, _ := validator.IsValidDateTime(req.Timestamp)
	direction := attendance.NormalizeDirection(req.Direction)

	event := &attendance.PunchEvent{
		ID:         uuid.Must(uuid.NewV7()).String(),
		EmployeeID: emp.ID,
		DeviceID:   &dev.ID,
		Timestamp:  timestamp.UTC(),
		Direction:  direction,
		Location:   req.Location,
	}
	if err := s.punchRepo.Create(ctx, nil, event); err != nil {
		return nil, fmt.Errorf("store punch event: %w", err)
	}

	if err := s.deviceRepo.TouchLastSeen(ctx, dev.ID, time.Now().UTC()); err != nil {
		slog.Warn("Failed to update device last-seen", "device_id", dev.ID, "error", err)
	}

	return &attendance.PunchResponse{
		EventID:    event.ID,
		EmployeeID: emp.ID,
		Direction:  direction,
		Timestamp:  event.Timestamp.Format(time.RFC3339),
	}, nil
}
