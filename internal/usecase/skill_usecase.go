package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"skill-ledger/internal/domain/employee"

	"github.com/google/uuid"
)

type SkillInput struct {
	ManagerEmail string
	SkillID      int64
	Track        string
	TrackDetails string
	Proficiency  int64
	LevelOne     string
	LevelTwo     string
	LevelThree   string
	LevelFour    string
	LevelOthers  string
}

type CommentInput struct {
	Message        string
	SenderName     string
	SenderID       int64
	NewProficiency int64
}

type LedgerOutcome struct {
	Mirrored bool                    `json:"mirrored"`
	Receipt  *employee.LedgerReceipt `json:"receipt,omitempty"`
	Error    string                  `json:"error,omitempty"`
}

type ConfirmResult struct {
	Skill  employee.Skill `json:"skill"`
	Ledger LedgerOutcome  `json:"ledger"`
}

type PendingSkill struct {
	Idx int `json:"idx"`
	employee.Skill
}

type PendingEmployee struct {
	EmpID    int64             `json:"empId"`
	Employee employee.Employee `json:"employee"`
	Skills   []PendingSkill    `json:"skills"`
}

type SkillUsecase interface {
	AddSkill(ctx context.Context, empID int64, in SkillInput) (employee.Skill, error)
	CommentSkill(ctx context.Context, empID int64, ref employee.SkillRef, in CommentInput) (employee.Skill, error)
	ConfirmSkill(ctx context.Context, empID int64, ref employee.SkillRef) (ConfirmResult, error)
	ResyncSkill(ctx context.Context, empID int64, ref employee.SkillRef) (ConfirmResult, error)
	PendingSkills(ctx context.Context, managerID int64) ([]PendingEmployee, error)
	LedgerSkills(ctx context.Context, empID int64) ([]employee.LedgerSkill, error)
}

type SkillService struct {
	employees employee.Repository
	ledger    Ledger
	cache     Cache
	notifier  Notifier
	cacheTTL  time.Duration
	logger    *log.Logger
	now       func() time.Time
}

type SkillServiceOptions struct {
	Cache    Cache
	CacheTTL time.Duration
	Notifier Notifier
	Logger   *log.Logger
}

func NewSkillService(employees employee.Repository, ledger Ledger, opts SkillServiceOptions) *SkillService {
	s := &SkillService{
		employees: employees,
		ledger:    ledger,
		cache:     opts.Cache,
		notifier:  opts.Notifier,
		cacheTTL:  opts.CacheTTL,
		logger:    opts.Logger,
		now:       time.Now,
	}
	if s.notifier == nil {
		s.notifier = noopNotifier{}
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	return s
}

func (s *SkillService) AddSkill(ctx context.Context, empID int64, in SkillInput) (employee.Skill, error) {
	managerEmail := strings.TrimSpace(in.ManagerEmail)
	if empID <= 0 || managerEmail == "" {
		return employee.Skill{}, ErrInvalidInput
	}

	managerID, err := s.employees.IDByEmail(ctx, managerEmail)
	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			return employee.Skill{}, ErrManagerNotFound
		}
		return employee.Skill{}, backendErr("manager.by_email", err)
	}

	now := s.now().UTC()
	sk := employee.Skill{
		UID:          uuid.NewString(),
		SkillID:      in.SkillID,
		ManagerID:    managerID,
		Track:        in.Track,
		TrackDetails: in.TrackDetails,
		Proficiency:  in.Proficiency,
		LevelOne:     in.LevelOne,
		LevelTwo:     in.LevelTwo,
		LevelThree:   in.LevelThree,
		LevelFour:    in.LevelFour,
		LevelOthers:  in.LevelOthers,
		Comments:     []employee.Comment{},
		CreatedAt:    now,
	}
	if err := s.employees.AppendSkill(ctx, empID, sk); err != nil {
		return employee.Skill{}, mapEmployeeErr("skill.add", err)
	}

	invalidateEmployee(ctx, s.cache, s.logger, empID)
	s.logger.Printf("[Skill] proposed | emp_id=%d uid=%s manager_id=%d", empID, sk.UID, managerID)
	s.notifier.NotifySkill(employee.SkillEvent{
		Type:      employee.EventSkillProposed,
		EmpID:     empID,
		ManagerID: managerID,
		SkillUID:  sk.UID,
		Timestamp: now,
	})
	return sk, nil
}

func (s *SkillService) CommentSkill(ctx context.Context, empID int64, ref employee.SkillRef, in CommentInput) (employee.Skill, error) {
	if empID <= 0 || ref.IsZero() {
		return employee.Skill{}, ErrInvalidInput
	}
	c := employee.Comment{
		Message:        in.Message,
		SenderName:     in.SenderName,
		SenderID:       in.SenderID,
		NewProficiency: in.NewProficiency,
		CreatedAt:      s.now().UTC(),
	}
	sk, err := s.employees.AppendComment(ctx, empID, ref, c)
	if err != nil {
		return employee.Skill{}, mapEmployeeErr("skill.comment", err)
	}
	return sk, nil
}

func (s *SkillService) ConfirmSkill(ctx context.Context, empID int64, ref employee.SkillRef) (ConfirmResult, error) {
	if empID <= 0 || ref.IsZero() {
		return ConfirmResult{}, ErrInvalidInput
	}

	sk, err := s.employees.ConfirmSkill(ctx, empID, ref, s.now().UTC())
	if err != nil {
		return ConfirmResult{}, mapEmployeeErr("skill.confirm", err)
	}
	s.logger.Printf("[Skill] confirmed | emp_id=%d ref=%s", empID, ref)

	// The flag is already persisted, so the chain write and status update
	// must not be cut short by a client disconnect.
	return s.mirror(context.WithoutCancel(ctx), empID, sk), nil
}

func (s *SkillService) ResyncSkill(ctx context.Context, empID int64, ref employee.SkillRef) (ConfirmResult, error) {
	if empID <= 0 || ref.IsZero() {
		return ConfirmResult{}, ErrInvalidInput
	}

	sk, err := s.employees.GetSkill(ctx, empID, ref)
	if err != nil {
		return ConfirmResult{}, mapEmployeeErr("skill.get", err)
	}
	if !sk.Confirmed || sk.LedgerStatus != employee.LedgerStatusFailed {
		return ConfirmResult{}, ErrSkillNotResyncable
	}
	s.logger.Printf("[Skill] resync | emp_id=%d uid=%s", empID, sk.UID)
	return s.mirror(context.WithoutCancel(ctx), empID, sk), nil
}

// mirror performs the single ledger write for a confirmed skill and records
// the outcome on the stored entry.
func (s *SkillService) mirror(ctx context.Context, empID int64, sk employee.Skill) ConfirmResult {
	res := ConfirmResult{Skill: sk}
	evType := employee.EventSkillConfirmed

	receipt, err := s.ledger.AddSkill(ctx, empID, sk.Ledger())
	if err != nil {
		res.Ledger = LedgerOutcome{Mirrored: false, Error: err.Error()}
		res.Skill.LedgerStatus = employee.LedgerStatusFailed
		res.Skill.LedgerError = err.Error()
		evType = employee.EventSkillMirrorFailed
		s.logger.Printf("[Ledger] addSkill failed | emp_id=%d uid=%s err=%v", empID, sk.UID, err)
	} else {
		res.Ledger = LedgerOutcome{Mirrored: true, Receipt: &receipt}
		res.Skill.LedgerStatus = employee.LedgerStatusMirrored
		res.Skill.LedgerError = ""
		s.logger.Printf("[Ledger] addSkill mined | emp_id=%d uid=%s tx=%s block=%d", empID, sk.UID, receipt.TxHash, receipt.BlockNumber)
	}

	if sk.UID != "" {
		if err := s.employees.SetLedgerStatus(ctx, empID, sk.UID, res.Skill.LedgerStatus, res.Skill.LedgerError); err != nil {
			s.logger.Printf("[Skill] ledger status not recorded | emp_id=%d uid=%s err=%v", empID, sk.UID, err)
		}
	} else {
		s.logger.Printf("[Skill] ledger status not recorded | emp_id=%d reason=missing_uid", empID)
	}

	invalidateEmployee(ctx, s.cache, s.logger, empID)
	s.notifier.NotifySkill(employee.SkillEvent{
		Type:      evType,
		EmpID:     empID,
		ManagerID: sk.ManagerID,
		SkillUID:  sk.UID,
		Timestamp: s.now().UTC(),
	})
	return res
}

func (s *SkillService) PendingSkills(ctx context.Context, managerID int64) ([]PendingEmployee, error) {
	if managerID <= 0 {
		return nil, ErrInvalidInput
	}
	items, err := s.employees.ListPendingByManager(ctx, managerID)
	if err != nil {
		return nil, backendErr("skill.pending", err)
	}

	out := make([]PendingEmployee, 0, len(items))
	for _, e := range items {
		pending := make([]PendingSkill, 0)
		for i, sk := range e.Skills {
			if sk.ManagerID == managerID && !sk.Confirmed {
				pending = append(pending, PendingSkill{Idx: i, Skill: sk})
			}
		}
		if len(pending) == 0 {
			continue
		}
		out = append(out, PendingEmployee{EmpID: e.ID, Employee: e, Skills: pending})
	}
	return out, nil
}

func (s *SkillService) LedgerSkills(ctx context.Context, empID int64) ([]employee.LedgerSkill, error) {
	if empID <= 0 {
		return nil, ErrInvalidInput
	}
	return ledgerSkills(ctx, s.ledger, s.cache, s.cacheTTL, s.logger, empID)
}

// ledgerSkills is the cache-aside read shared by the skill and search
// services.
func ledgerSkills(ctx context.Context, ledger Ledger, c Cache, ttl time.Duration, logger *log.Logger, empID int64) ([]employee.LedgerSkill, error) {
	key := LedgerCacheKey(empID)
	if c != nil {
		var cached []employee.LedgerSkill
		hit, err := c.GetJSON(ctx, key, &cached)
		if err == nil && hit {
			return cached, nil
		}
	}

	skills, err := ledger.GetSkills(ctx, empID)
	if err != nil {
		return nil, backendErr("ledger.get_skills", err)
	}
	if skills == nil {
		skills = []employee.LedgerSkill{}
	}

	if c != nil {
		if err := c.SetJSON(ctx, key, skills, ttl); err != nil && logger != nil {
			logger.Printf("[Cache] set failed | key=%s err=%v", key, err)
		}
	}
	return skills, nil
}
