package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"skill-ledger/internal/delivery/http/middleware"
	"skill-ledger/internal/delivery/http/validation"
	"skill-ledger/internal/domain/employee"
	"skill-ledger/internal/pkg/jwt"
	"skill-ledger/internal/search"
	"skill-ledger/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type semanticResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type fakeEmployeeUC struct {
	byID     map[int64]employee.Employee
	addErr   error
	verified map[int64]int
}

func (f *fakeEmployeeUC) AddEmployee(_ context.Context, e employee.Employee) (employee.Employee, error) {
	if f.addErr != nil {
		return employee.Employee{}, f.addErr
	}
	e.ID = e.EmpID
	return e, nil
}

func (f *fakeEmployeeUC) GetEmployee(_ context.Context, id int64) (employee.Employee, error) {
	e, ok := f.byID[id]
	if !ok {
		return employee.Employee{}, usecase.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployeeUC) GetEmployeeByEmail(ctx context.Context, email string) (employee.Employee, error) {
	for _, e := range f.byID {
		if e.Email == email {
			return e, nil
		}
	}
	return employee.Employee{}, usecase.ErrEmployeeNotFound
}

func (f *fakeEmployeeUC) SetVerification(_ context.Context, id int64, status int) error {
	if _, ok := f.byID[id]; !ok {
		return usecase.ErrEmployeeNotFound
	}
	if f.verified == nil {
		f.verified = map[int64]int{}
	}
	f.verified[id] = status
	return nil
}

func (f *fakeEmployeeUC) ListEmployees(context.Context) ([]employee.Employee, error) {
	out := make([]employee.Employee, 0, len(f.byID))
	for _, e := range f.byID {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEmployeeUC) SkillMeta(context.Context) (interface{}, error) {
	return map[string]interface{}{"Engineering": map[string]interface{}{}}, nil
}

type fakeSkillUC struct {
	lastInput  usecase.SkillInput
	confirm    usecase.ConfirmResult
	confirmErr error
	lastRef    employee.SkillRef
}

func (f *fakeSkillUC) AddSkill(_ context.Context, _ int64, in usecase.SkillInput) (employee.Skill, error) {
	f.lastInput = in
	return employee.Skill{UID: "u-1", LevelOne: in.LevelOne, Comments: []employee.Comment{}}, nil
}

func (f *fakeSkillUC) CommentSkill(_ context.Context, _ int64, ref employee.SkillRef, in usecase.CommentInput) (employee.Skill, error) {
	f.lastRef = ref
	return employee.Skill{UID: "u-1", Comments: []employee.Comment{{Message: in.Message}}}, nil
}

func (f *fakeSkillUC) ConfirmSkill(_ context.Context, _ int64, ref employee.SkillRef) (usecase.ConfirmResult, error) {
	f.lastRef = ref
	return f.confirm, f.confirmErr
}

func (f *fakeSkillUC) ResyncSkill(ctx context.Context, id int64, ref employee.SkillRef) (usecase.ConfirmResult, error) {
	return f.ConfirmSkill(ctx, id, ref)
}

func (f *fakeSkillUC) PendingSkills(context.Context, int64) ([]usecase.PendingEmployee, error) {
	return []usecase.PendingEmployee{}, nil
}

func (f *fakeSkillUC) LedgerSkills(context.Context, int64) ([]employee.LedgerSkill, error) {
	return nil, &usecase.BackendError{Op: "ledger.get_skills", Err: errors.New("dial tcp 127.0.0.1:8545: connection refused")}
}

type fakeSearchUC struct {
	last usecase.SearchInput
}

func (f *fakeSearchUC) Search(_ context.Context, in usecase.SearchInput) ([]search.Hit, error) {
	f.last = in
	return []search.Hit{}, nil
}

func (f *fakeSearchUC) AnalyticsByDate(context.Context) ([]search.QueryTrend, error) {
	return []search.QueryTrend{{Query: "go", Total: 1, Series: []search.SeriesPoint{{Key: "2024-03-01", Count: 1}}}}, nil
}

func (f *fakeSearchUC) AnalyticsByLocation(context.Context) ([]search.QueryTrend, error) {
	return []search.QueryTrend{}, nil
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

type testEnv struct {
	app    *fiber.App
	emp    *fakeEmployeeUC
	skills *fakeSkillUC
	search *fakeSearchUC
}

func newTestEnv(t *testing.T, adminSecret string, store fakePinger) *testEnv {
	t.Helper()
	v, err := validation.New()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}

	env := &testEnv{
		emp: &fakeEmployeeUC{byID: map[int64]employee.Employee{
			1: {ID: 1, EmpID: 1, Email: "a@x.io", Profile: map[string]interface{}{"name": "Ana"}},
		}},
		skills: &fakeSkillUC{},
		search: &fakeSearchUC{},
	}

	var adminAuth *middleware.AdminAuthMiddleware
	if adminSecret != "" {
		adminAuth = middleware.NewAdminAuthMiddleware(jwt.NewHMACService(adminSecret, time.Hour))
	}

	logger := log.New(io.Discard, "", 0)
	app := fiber.New()
	app.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
	NewRegistry(Deps{
		Employees: env.emp,
		Skills:    env.skills,
		Search:    env.search,
		Store:     store,
		Validate:  middleware.NewValidateMiddleware(v),
		AdminAuth: adminAuth,
	}).Register(app)
	env.app = app
	return env
}

func (e *testEnv) do(t *testing.T, method, target, body string, header map[string]string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := e.app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

func decode(t *testing.T, b []byte) semanticResponse {
	t.Helper()
	var sr semanticResponse
	if err := json.Unmarshal(b, &sr); err != nil {
		t.Fatalf("decode %s: %v", b, err)
	}
	return sr
}

func TestRoutes_WelcomeAndHealth(t *testing.T) {
	env := newTestEnv(t, "", fakePinger{})
	resp, body := env.do(t, http.MethodGet, "/", "", nil)
	if resp.StatusCode != http.StatusOK || string(body) != "Welcome to Orange Skill API" {
		t.Fatalf("unexpected welcome %d %q", resp.StatusCode, body)
	}
	if resp.Header.Get(middleware.HeaderRequestID) == "" {
		t.Fatalf("expected request id header")
	}

	resp, _ = env.do(t, http.MethodGet, "/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	down := newTestEnv(t, "", fakePinger{err: errors.New("no reachable servers")})
	resp, body = down.do(t, http.MethodGet, "/health", "", nil)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d %s", resp.StatusCode, body)
	}
}

func TestRoutes_EmployeeAddValidation(t *testing.T) {
	env := newTestEnv(t, "", fakePinger{})

	resp, body := env.do(t, http.MethodPost, "/employee/add", `{"name":"Ana"}`, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var fields []validation.FieldError
	if err := json.Unmarshal(decode(t, body).Data, &fields); err != nil || len(fields) == 0 {
		t.Fatalf("expected field errors, got %s", body)
	}

	resp, body = env.do(t, http.MethodPost, "/employee/add", `{"empId":"42","name":"Ana","team":{"id":3}}`, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", resp.StatusCode, body)
	}
	var doc map[string]interface{}
	_ = json.Unmarshal(decode(t, body).Data, &doc)
	if doc["_id"] != float64(42) || doc["name"] != "Ana" || doc["verified"] != float64(0) {
		t.Fatalf("unexpected doc %v", doc)
	}
}

func TestRoutes_EmployeeAddStoreErrorIsRaw(t *testing.T) {
	env := newTestEnv(t, "", fakePinger{})
	env.emp.addErr = &usecase.BackendError{Op: "employee.create", Err: errors.New("E11000 duplicate key error")}

	resp, body := env.do(t, http.MethodPost, "/employee/add", `{"empId":1}`, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(decode(t, body).Data), "E11000 duplicate key error") {
		t.Fatalf("expected raw store error, got %s", body)
	}
}

func TestRoutes_EmployeeGet(t *testing.T) {
	env := newTestEnv(t, "", fakePinger{})

	resp, body := env.do(t, http.MethodPost, "/employee/get", `{"empId":1}`, nil)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"name":"Ana"`) {
		t.Fatalf("unexpected %d %s", resp.StatusCode, body)
	}

	resp, _ = env.do(t, http.MethodPost, "/employee/get", `{"empId":2}`, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	resp, _ = env.do(t, http.MethodGet, "/employee/getByEmail?email=a@x.io", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestRoutes_ConfirmOutcomes(t *testing.T) {
	env := newTestEnv(t, "", fakePinger{})

	resp, _ := env.do(t, http.MethodPost, "/employee/skill/confirm", `{"empId":1}`, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without a skill ref, got %d", resp.StatusCode)
	}

	env.skills.confirm = usecase.ConfirmResult{
		Skill:  employee.Skill{UID: "u-1", Confirmed: true, LedgerStatus: employee.LedgerStatusFailed},
		Ledger: usecase.LedgerOutcome{Mirrored: false, Error: "execution reverted"},
	}
	resp, body := env.do(t, http.MethodPost, "/employee/skill/confirm", `{"empId":1,"skillIdx":0}`, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on ledger failure, got %d", resp.StatusCode)
	}
	var res usecase.ConfirmResult
	if err := json.Unmarshal(decode(t, body).Data, &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Ledger.Mirrored || res.Ledger.Error != "execution reverted" || !res.Skill.Confirmed {
		t.Fatalf("unexpected result %+v", res)
	}
	if env.skills.lastRef.Index == nil || *env.skills.lastRef.Index != 0 {
		t.Fatalf("expected index ref, got %+v", env.skills.lastRef)
	}

	env.skills.confirmErr = usecase.ErrSkillAlreadyConfirmed
	resp, _ = env.do(t, http.MethodPost, "/employee/skill/resync", `{"empId":1,"skillUid":"u-1"}`, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
	if env.skills.lastRef.UID != "u-1" {
		t.Fatalf("expected uid ref, got %+v", env.skills.lastRef)
	}
}

func TestRoutes_LedgerSkillsBackendError(t *testing.T) {
	env := newTestEnv(t, "", fakePinger{})
	resp, body := env.do(t, http.MethodPost, "/employee/skills", `{"empId":1}`, nil)
	if resp.StatusCode != http.StatusBadRequest || !strings.Contains(string(body), "connection refused") {
		t.Fatalf("unexpected %d %s", resp.StatusCode, body)
	}
}

func TestRoutes_SearchAndAnalytics(t *testing.T) {
	env := newTestEnv(t, "", fakePinger{})

	resp, _ := env.do(t, http.MethodPost, "/employee/searchSkill", `{"loc":"jakarta"}`, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without query, got %d", resp.StatusCode)
	}

	resp, body := env.do(t, http.MethodPost, "/employee/searchSkill", `{"query":"Go","loc":"jakarta","sortByProf":true}`, nil)
	if resp.StatusCode != http.StatusOK || string(decode(t, body).Data) != "[]" {
		t.Fatalf("unexpected %d %s", resp.StatusCode, body)
	}
	if env.search.last.Query != "Go" || env.search.last.Location != "jakarta" || !env.search.last.SortByProf {
		t.Fatalf("unexpected input %+v", env.search.last)
	}

	resp, body = env.do(t, http.MethodPost, "/employee/search/analytics/date", "", nil)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"series":[{"key":"2024-03-01","count":1}]`) {
		t.Fatalf("unexpected %d %s", resp.StatusCode, body)
	}
}

func TestRoutes_AdminAuth(t *testing.T) {
	open := newTestEnv(t, "", fakePinger{})
	resp, _ := open.do(t, http.MethodGet, "/admin/user/all", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected open admin routes without a secret, got %d", resp.StatusCode)
	}

	env := newTestEnv(t, "secret", fakePinger{})
	resp, _ = env.do(t, http.MethodPost, "/admin/user/approve", `{"empId":1}`, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	tok, err := jwt.NewHMACService("secret", time.Hour).GenerateAdminToken("ops")
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	auth := map[string]string{"Authorization": "Bearer " + tok}
	resp, body := env.do(t, http.MethodPost, "/admin/user/approve", `{"empId":1}`, auth)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"verified":1`) {
		t.Fatalf("unexpected %d %s", resp.StatusCode, body)
	}
	if env.emp.verified[1] != employee.VerificationApproved {
		t.Fatalf("expected approval recorded")
	}

	resp, _ = env.do(t, http.MethodPost, "/admin/user/reject", `{"empId":9}`, auth)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestRoutes_SkillAddAcceptsContractSpelling(t *testing.T) {
	env := newTestEnv(t, "", fakePinger{})

	body := `{"empId":1,"skill":{"managerEmail":"m@x.io","skillId":5,"track":"backend","profiency":4,"levelOne":"go"}}`
	resp, raw := env.do(t, http.MethodPost, "/employee/skill/add", body, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", resp.StatusCode, raw)
	}
	if env.skills.lastInput.Proficiency != 4 {
		t.Fatalf("expected proficiency 4 from profiency, got %d", env.skills.lastInput.Proficiency)
	}

	body = `{"empId":1,"skill":{"managerEmail":"m@x.io","proficiency":3,"profiency":4}}`
	if resp, _ = env.do(t, http.MethodPost, "/employee/skill/add", body, nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if env.skills.lastInput.Proficiency != 3 {
		t.Fatalf("expected explicit proficiency to win, got %d", env.skills.lastInput.Proficiency)
	}

	body = `{"empId":1,"skill":{"managerEmail":"m@x.io","profiency":"high"}}`
	if resp, _ = env.do(t, http.MethodPost, "/employee/skill/add", body, nil); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for a non-integer profiency, got %d", resp.StatusCode)
	}
}
