package employee

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound              = errors.New("employee not found")
	ErrDuplicate             = errors.New("employee already exists")
	ErrSkillNotFound         = errors.New("skill not found")
	ErrSkillAlreadyConfirmed = errors.New("skill already confirmed")
)

type Repository interface {
	Create(ctx context.Context, e Employee) error
	GetByID(ctx context.Context, id int64) (Employee, error)
	IDByEmail(ctx context.Context, email string) (int64, error)
	List(ctx context.Context) ([]Employee, error)
	ListIDs(ctx context.Context) ([]int64, error)
	SetVerified(ctx context.Context, id int64, verified int) error

	AppendSkill(ctx context.Context, id int64, s Skill) error
	AppendComment(ctx context.Context, id int64, ref SkillRef, c Comment) (Skill, error)
	// ConfirmSkill flips confirmed only when the skill is still pending, so
	// concurrent callers see exactly one success.
	ConfirmSkill(ctx context.Context, id int64, ref SkillRef, at time.Time) (Skill, error)
	GetSkill(ctx context.Context, id int64, ref SkillRef) (Skill, error)
	SetLedgerStatus(ctx context.Context, id int64, uid string, status string, ledgerErr string) error
	ListPendingByManager(ctx context.Context, managerID int64) ([]Employee, error)
}
