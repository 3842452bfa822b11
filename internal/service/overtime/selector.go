package overtime

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mir-hr/attendance-backend-go/internal/domain/employee"
	"github.com/mir-hr/attendance-backend-go/internal/domain/overtime"
)

// RuleSelector picks the overtime rule that governs an employee on a
// date: the highest-priority active rule whose validity window covers
// the date and whose department list includes the employee.
type RuleSelector struct {
	ruleRepo overtime.OvertimeRuleRepository
}

func NewRuleSelector(ruleRepo overtime.OvertimeRuleRepository) *RuleSelector {
	return &RuleSelector{ruleRepo: ruleRepo}
}

// Select returns (nil, nil) when no rule applies; the engine then runs
// its default-multiplier path. Employees without a department never
// match a rule.
func (s *RuleSelector) Select(ctx context.Context, emp *employee.Employee, date time.Time) (*overtime.OvertimeRule, error) {
	if emp == nil || emp.Department == nil || strings.TrimSpace(*emp.Department) == "" {
		return nil, nil
	}

	rules, err := s.ruleRepo.ListActiveForDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list active overtime rules: %w", err)
	}

	for i := range rules {
		if rules[i].AppliesToDepartment(*emp.Department) {
			return &rules[i], nil
		}
	}
	return nil, nil
}
