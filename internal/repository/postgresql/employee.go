package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/mir-hr/attendance-backend-go/internal/domain/employee"
	"github.com/mir-hr/attendance-backend-go/internal/pkg/database"
	"github.com/mir-hr/attendance-backend-go/internal/pkg/weekday"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `
	id, name, employee_code, email, department, position, phone, join_date,
	is_active, current_shift_id, weekend_days,
	eligible_for_weekday_overtime, eligible_for_weekend_overtime,
	eligible_for_holiday_overtime, last_sync_at, created_at, updated_at`

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	emp, err := scanEmployee(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

// GetByCode implements employee.EmployeeRepository.
func (r *employeeRepository) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE employee_code = $1`

	emp, err := scanEmployee(r.db.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by code: %w", err)
	}
	return emp, nil
}

// ListByIDs implements employee.EmployeeRepository.
func (r *employeeRepository) ListByIDs(ctx context.Context, ids []string) ([]employee.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = ANY($1) ORDER BY employee_code`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees by ids: %w", err)
	}
	defer rows.Close()

	return scanEmployees(rows)
}

// ListActive implements employee.EmployeeRepository.
func (r *employeeRepository) ListActive(ctx context.Context) ([]employee.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE is_active = true ORDER BY employee_code`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	return scanEmployees(rows)
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	var weekendDays []int
	err := row.Scan(
		&emp.ID, &emp.Name, &emp.EmployeeCode, &emp.Email, &emp.Department,
		&emp.Position, &emp.Phone, &emp.JoinDate,
		&emp.IsActive, &emp.CurrentShiftID, &weekendDays,
		&emp.EligibleForWeekdayOvertime, &emp.EligibleForWeekendOvertime,
		&emp.EligibleForHolidayOvertime, &emp.LastSyncAt, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}
	emp.WeekendDays = weekday.FromInts(weekendDays)
	return emp, nil
}

func scanEmployees(rows pgx.Rows) ([]employee.Employee, error) {
	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}
