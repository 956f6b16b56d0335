package usecase

import (
	"context"

	"skill-ledger/internal/domain/employee"
)

type Ledger interface {
	AddSkill(ctx context.Context, empID int64, s employee.LedgerSkill) (employee.LedgerReceipt, error)
	GetSkills(ctx context.Context, empID int64) ([]employee.LedgerSkill, error)
}

// Notifier fans skill events out to subscribers. Implementations must not
// block the caller.
type Notifier interface {
	NotifySkill(ev employee.SkillEvent)
}

type noopNotifier struct{}

func (noopNotifier) NotifySkill(employee.SkillEvent) {}
