package usecase

import (
	"context"
	"errors"
	"testing"

	"skill-ledger/internal/domain/employee"
	"skill-ledger/internal/domain/skillmeta"
)

func TestEmployeeService_AddEmployee_Defaults(t *testing.T) {
	repo := newFakeEmployees()
	svc := NewEmployeeService(repo, fakeSkillMeta{}, testLogger())

	got, err := svc.AddEmployee(context.Background(), employee.Employee{
		EmpID:   7,
		Profile: map[string]interface{}{"name": "Ana"},
		Skills:  []employee.Skill{{LevelOne: "go"}},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.ID != 7 || got.Verified != employee.VerificationUnset {
		t.Fatalf("unexpected employee %+v", got)
	}
	if got.Skills[0].UID == "" || got.Skills[0].Comments == nil || got.Skills[0].CreatedAt.IsZero() {
		t.Fatalf("expected skill defaults, got %+v", got.Skills[0])
	}

	if _, err := svc.AddEmployee(context.Background(), employee.Employee{EmpID: 7}); err == nil {
		t.Fatalf("expected duplicate error")
	} else {
		var be *BackendError
		if !errors.As(err, &be) || !errors.Is(err, employee.ErrDuplicate) {
			t.Fatalf("expected backend duplicate error, got %v", err)
		}
	}
}

func TestEmployeeService_AddEmployee_RequiresID(t *testing.T) {
	svc := NewEmployeeService(newFakeEmployees(), fakeSkillMeta{}, testLogger())
	if _, err := svc.AddEmployee(context.Background(), employee.Employee{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.AddEmployee(context.Background(), employee.Employee{EmpID: 1, Verified: 5}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for verified=5, got %v", err)
	}
}

func TestEmployeeService_LookupsAndVerification(t *testing.T) {
	repo := newFakeEmployees(employee.Employee{ID: 3, EmpID: 3, Email: "m@x.io"})
	svc := NewEmployeeService(repo, fakeSkillMeta{}, testLogger())
	ctx := context.Background()

	if _, err := svc.GetEmployee(ctx, 4); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	e, err := svc.GetEmployeeByEmail(ctx, " m@x.io ")
	if err != nil || e.ID != 3 {
		t.Fatalf("by email: %+v %v", e, err)
	}
	if _, err := svc.GetEmployeeByEmail(ctx, "nobody@x.io"); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := svc.SetVerification(ctx, 3, employee.VerificationRejected); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if e, _ := svc.GetEmployee(ctx, 3); e.Verified != employee.VerificationRejected {
		t.Fatalf("expected rejected, got %d", e.Verified)
	}
	if err := svc.SetVerification(ctx, 9, employee.VerificationApproved); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := svc.SetVerification(ctx, 3, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}

	list, err := svc.ListEmployees(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v %d", err, len(list))
	}
}

func TestEmployeeService_SkillMeta(t *testing.T) {
	svc := NewEmployeeService(newFakeEmployees(), fakeSkillMeta{err: skillmeta.ErrNotFound}, testLogger())
	if _, err := svc.SkillMeta(context.Background()); !errors.Is(err, ErrSkillMetaNotFound) {
		t.Fatalf("expected meta not found, got %v", err)
	}

	svc = NewEmployeeService(newFakeEmployees(), fakeSkillMeta{data: map[string]interface{}{"Engineering": nil}}, testLogger())
	data, err := svc.SkillMeta(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, ok := data.(map[string]interface{})["Engineering"]; !ok {
		t.Fatalf("unexpected data %#v", data)
	}
}
