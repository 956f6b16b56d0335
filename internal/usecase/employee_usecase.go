package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"skill-ledger/internal/domain/employee"
	"skill-ledger/internal/domain/skillmeta"

	"github.com/google/uuid"
)

type EmployeeUsecase interface {
	AddEmployee(ctx context.Context, e employee.Employee) (employee.Employee, error)
	GetEmployee(ctx context.Context, empID int64) (employee.Employee, error)
	GetEmployeeByEmail(ctx context.Context, email string) (employee.Employee, error)
	SetVerification(ctx context.Context, empID int64, status int) error
	ListEmployees(ctx context.Context) ([]employee.Employee, error)
	SkillMeta(ctx context.Context) (interface{}, error)
}

type EmployeeService struct {
	employees employee.Repository
	meta      skillmeta.Repository
	logger    *log.Logger
	now       func() time.Time
}

func NewEmployeeService(employees employee.Repository, meta skillmeta.Repository, logger *log.Logger) *EmployeeService {
	if logger == nil {
		logger = log.Default()
	}
	return &EmployeeService{employees: employees, meta: meta, logger: logger, now: time.Now}
}

func (s *EmployeeService) AddEmployee(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	if e.EmpID <= 0 {
		return employee.Employee{}, ErrInvalidInput
	}
	e.ID = e.EmpID
	e.Email = strings.TrimSpace(e.Email)
	switch e.Verified {
	case employee.VerificationUnset, employee.VerificationApproved, employee.VerificationRejected:
	default:
		return employee.Employee{}, ErrInvalidInput
	}

	now := s.now().UTC()
	if e.Skills == nil {
		e.Skills = []employee.Skill{}
	}
	for i := range e.Skills {
		e.Skills[i] = withSkillDefaults(e.Skills[i], now)
	}

	if err := s.employees.Create(ctx, e); err != nil {
		return employee.Employee{}, backendErr("employee.create", err)
	}
	s.logger.Printf("[Employee] created | emp_id=%d skills=%d", e.ID, len(e.Skills))
	return e, nil
}

func (s *EmployeeService) GetEmployee(ctx context.Context, empID int64) (employee.Employee, error) {
	if empID <= 0 {
		return employee.Employee{}, ErrInvalidInput
	}
	e, err := s.employees.GetByID(ctx, empID)
	if err != nil {
		return employee.Employee{}, mapEmployeeErr("employee.get", err)
	}
	return e, nil
}

func (s *EmployeeService) GetEmployeeByEmail(ctx context.Context, email string) (employee.Employee, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return employee.Employee{}, ErrInvalidInput
	}
	id, err := s.employees.IDByEmail(ctx, email)
	if err != nil {
		return employee.Employee{}, mapEmployeeErr("employee.by_email", err)
	}
	return s.GetEmployee(ctx, id)
}

func (s *EmployeeService) SetVerification(ctx context.Context, empID int64, status int) error {
	if empID <= 0 {
		return ErrInvalidInput
	}
	if status != employee.VerificationApproved && status != employee.VerificationRejected {
		return ErrInvalidInput
	}
	if err := s.employees.SetVerified(ctx, empID, status); err != nil {
		return mapEmployeeErr("employee.verify", err)
	}
	s.logger.Printf("[Employee] verification set | emp_id=%d verified=%d", empID, status)
	return nil
}

func (s *EmployeeService) ListEmployees(ctx context.Context) ([]employee.Employee, error) {
	items, err := s.employees.List(ctx)
	if err != nil {
		return nil, backendErr("employee.list", err)
	}
	if items == nil {
		items = []employee.Employee{}
	}
	return items, nil
}

func (s *EmployeeService) SkillMeta(ctx context.Context) (interface{}, error) {
	data, err := s.meta.Get(ctx)
	if err != nil {
		if errors.Is(err, skillmeta.ErrNotFound) {
			return nil, ErrSkillMetaNotFound
		}
		return nil, backendErr("skillmeta.get", err)
	}
	return data, nil
}

// withSkillDefaults fills the fields the service owns on a new skill entry.
func withSkillDefaults(sk employee.Skill, now time.Time) employee.Skill {
	if strings.TrimSpace(sk.UID) == "" {
		sk.UID = uuid.NewString()
	}
	if sk.Comments == nil {
		sk.Comments = []employee.Comment{}
	}
	if sk.CreatedAt.IsZero() {
		sk.CreatedAt = now
	}
	return sk
}

func mapEmployeeErr(op string, err error) error {
	switch {
	case errors.Is(err, employee.ErrNotFound):
		return ErrEmployeeNotFound
	case errors.Is(err, employee.ErrSkillNotFound):
		return ErrSkillNotFound
	case errors.Is(err, employee.ErrSkillAlreadyConfirmed):
		return ErrSkillAlreadyConfirmed
	default:
		return backendErr(op, err)
	}
}
