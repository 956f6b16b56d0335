package mongodb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"skill-ledger/internal/config"
	"skill-ledger/internal/domain/employee"
	"skill-ledger/internal/domain/searchlog"
	"skill-ledger/internal/domain/skillmeta"

	"go.mongodb.org/mongo-driver/bson"
)

func connectTestDB(t *testing.T, ctx context.Context) *DB {
	t.Helper()
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}
	db, err := Connect(ctx, config.MongoConfig{
		URI:      uri,
		Database: fmt.Sprintf("skill_ledger_test_%d", time.Now().UnixNano()),
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Database().Drop(context.Background())
		_ = db.Close(context.Background())
	})
	if err := db.EnsureIndexes(ctx); err != nil {
		t.Fatalf("indexes: %v", err)
	}
	return db
}

func TestEmployeeRepository_Lifecycle(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo := NewEmployeeRepository(connectTestDB(t, ctx))

	e := employee.Employee{ID: 1, EmpID: 1, Email: "a@x.io", Profile: map[string]interface{}{"name": "Ana"}}
	if err := repo.Create(ctx, e); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, e); !errors.Is(err, employee.ErrDuplicate) {
		t.Fatalf("expected duplicate, got %v", err)
	}

	got, err := repo.GetByID(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Profile["name"] != "Ana" || got.Verified != 0 {
		t.Fatalf("unexpected employee %+v", got)
	}
	if id, err := repo.IDByEmail(ctx, "a@x.io"); err != nil || id != 1 {
		t.Fatalf("email lookup: id=%d err=%v", id, err)
	}
	if _, err := repo.GetByID(ctx, 99); !errors.Is(err, employee.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	skill := employee.Skill{UID: "u-1", SkillID: 5, ManagerID: 2, LevelOne: "go", CreatedAt: time.Now().UTC()}
	if err := repo.AppendSkill(ctx, 1, skill); err != nil {
		t.Fatalf("append skill: %v", err)
	}

	idx := 0
	commented, err := repo.AppendComment(ctx, 1, employee.SkillRef{Index: &idx}, employee.Comment{Message: "nice"})
	if err != nil {
		t.Fatalf("comment: %v", err)
	}
	if len(commented.Comments) != 1 || commented.Comments[0].Message != "nice" {
		t.Fatalf("unexpected comments %+v", commented.Comments)
	}

	bad := 3
	if _, err := repo.AppendComment(ctx, 1, employee.SkillRef{Index: &bad}, employee.Comment{}); !errors.Is(err, employee.ErrSkillNotFound) {
		t.Fatalf("expected skill not found, got %v", err)
	}

	pending, err := repo.ListPendingByManager(ctx, 2)
	if err != nil || len(pending) != 1 {
		t.Fatalf("pending: %v %d", err, len(pending))
	}

	var wg sync.WaitGroup
	results := make([]error, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = repo.ConfirmSkill(ctx, 1, employee.SkillRef{UID: "u-1"}, time.Now().UTC())
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, employee.ErrSkillAlreadyConfirmed):
		default:
			t.Fatalf("unexpected confirm error %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one confirm to win, got %d", wins)
	}

	if err := repo.SetLedgerStatus(ctx, 1, "u-1", employee.LedgerStatusFailed, "boom"); err != nil {
		t.Fatalf("ledger status: %v", err)
	}
	s, err := repo.GetSkill(ctx, 1, employee.SkillRef{UID: "u-1"})
	if err != nil || !s.Confirmed || s.ConfirmedAt == nil || s.LedgerStatus != employee.LedgerStatusFailed {
		t.Fatalf("unexpected skill %+v err=%v", s, err)
	}

	if pending, _ := repo.ListPendingByManager(ctx, 2); len(pending) != 0 {
		t.Fatalf("expected no pending after confirm, got %d", len(pending))
	}
	if err := repo.SetVerified(ctx, 1, employee.VerificationApproved); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestSearchLogRepository_Accumulates(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo := NewSearchLogRepository(connectTestDB(t, ctx))
	k := searchlog.Key{Date: "2024-03-01", Location: "jakarta", Query: "go"}
	for i := 0; i < 3; i++ {
		if err := repo.Increment(ctx, k); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}
	_ = repo.Increment(ctx, searchlog.Key{Date: "2024-03-02", Location: "jakarta", Query: "go"})

	byLoc, err := repo.CountsByLocation(ctx)
	if err != nil {
		t.Fatalf("by loc: %v", err)
	}
	if len(byLoc) != 1 || byLoc[0].Count != 4 || byLoc[0].Dim != "jakarta" {
		t.Fatalf("unexpected %+v", byLoc)
	}

	n, err := repo.coll.CountDocuments(ctx, bson.M{})
	if err != nil || n != 2 {
		t.Fatalf("expected 2 counter documents, got %d err=%v", n, err)
	}
}

func TestSkillMetaRepository_PutGet(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo := NewSkillMetaRepository(connectTestDB(t, ctx))
	if _, err := repo.Get(ctx); !errors.Is(err, skillmeta.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := repo.Put(ctx, map[string]interface{}{"Engineering": map[string]interface{}{}}); err != nil {
		t.Fatalf("put: %v", err)
	}
	data, err := repo.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if m, ok := data.(bson.M); !ok || m["Engineering"] == nil {
		t.Fatalf("unexpected data %#v", data)
	}
}
