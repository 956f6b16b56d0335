package employee

import (
	"encoding/json"
	"testing"
)

func TestEmployee_UnmarshalJSON_SplitsProfile(t *testing.T) {
	var e Employee
	body := `{"empId": 42, "email": "a@x.io", "name": "Ana", "age": 31, "team": {"size": 4}}`
	if err := json.Unmarshal([]byte(body), &e); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if e.ID != 42 || e.EmpID != 42 {
		t.Fatalf("expected id 42, got %d/%d", e.ID, e.EmpID)
	}
	if e.Email != "a@x.io" {
		t.Fatalf("unexpected email %q", e.Email)
	}
	if e.Verified != VerificationUnset {
		t.Fatalf("expected verified default 0, got %d", e.Verified)
	}
	if e.Profile["name"] != "Ana" {
		t.Fatalf("expected name in profile, got %v", e.Profile["name"])
	}
	if age, ok := e.Profile["age"].(int64); !ok || age != 31 {
		t.Fatalf("expected int64 age, got %T %v", e.Profile["age"], e.Profile["age"])
	}
	team, ok := e.Profile["team"].(map[string]interface{})
	if !ok || team["size"] != int64(4) {
		t.Fatalf("expected nested number normalized, got %v", e.Profile["team"])
	}
	if _, ok := e.Profile["empId"]; ok {
		t.Fatalf("empId must not leak into profile")
	}
}

func TestEmployee_UnmarshalJSON_StringID(t *testing.T) {
	var e Employee
	if err := json.Unmarshal([]byte(`{"empId": "7"}`), &e); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if e.ID != 7 {
		t.Fatalf("expected id 7, got %d", e.ID)
	}

	if err := json.Unmarshal([]byte(`{"empId": "seven"}`), &e); err == nil {
		t.Fatalf("expected error for non numeric id")
	}
}

func TestEmployee_MarshalJSON_FlattensProfile(t *testing.T) {
	e := Employee{
		ID:       9,
		Verified: VerificationApproved,
		Profile:  map[string]interface{}{"name": "Bo", "verified": "spoofed"},
	}
	b, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	var out map[string]interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out["_id"] != float64(9) || out["empId"] != float64(9) {
		t.Fatalf("expected ids echoed, got %v", out)
	}
	if out["verified"] != float64(1) {
		t.Fatalf("profile must not override verified, got %v", out["verified"])
	}
	if out["name"] != "Bo" {
		t.Fatalf("expected name, got %v", out["name"])
	}
	if skills, ok := out["skills"].([]interface{}); !ok || len(skills) != 0 {
		t.Fatalf("expected empty skills array, got %v", out["skills"])
	}
}

func TestSkillRef(t *testing.T) {
	if !(SkillRef{}).IsZero() {
		t.Fatalf("expected zero ref")
	}
	idx := 0
	ref := SkillRef{Index: &idx}
	if ref.IsZero() {
		t.Fatalf("index 0 is a valid ref")
	}
	if ref.String() != "idx=0" {
		t.Fatalf("unexpected %q", ref.String())
	}
	if (SkillRef{UID: "u1", Index: &idx}).String() != "uid=u1" {
		t.Fatalf("uid must win over index")
	}
}

func TestLedgerSkill_MarshalJSON_BothProficiencyKeys(t *testing.T) {
	b, err := json.Marshal(LedgerSkill{SkillID: 7, Proficiency: 4, LevelOne: "go"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["proficiency"] != float64(4) || out["profiency"] != float64(4) || out["skillId"] != float64(7) {
		t.Fatalf("unexpected keys %v", out)
	}

	var back LedgerSkill
	if err := json.Unmarshal(b, &back); err != nil || back.Proficiency != 4 || back.LevelOne != "go" {
		t.Fatalf("round trip lost fields: %+v %v", back, err)
	}
}
