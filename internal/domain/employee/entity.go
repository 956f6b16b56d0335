package employee

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	VerificationUnset    = 0
	VerificationApproved = 1
	VerificationRejected = -1
)

const (
	LedgerStatusMirrored = "mirrored"
	LedgerStatusFailed   = "failed"
)

// Employee is stored with its external id as the primary key. Fields the
// service does not know about are kept in Profile and round-trip unchanged.
type Employee struct {
	ID       int64                  `bson:"_id"`
	EmpID    int64                  `bson:"empId"`
	Email    string                 `bson:"email,omitempty"`
	Verified int                    `bson:"verified"`
	Skills   []Skill                `bson:"skills"`
	Profile  map[string]interface{} `bson:",inline"`
}

type Skill struct {
	UID          string     `bson:"uid" json:"uid"`
	SkillID      int64      `bson:"skillId" json:"skillId"`
	ManagerID    int64      `bson:"managerId" json:"managerId"`
	Track        string     `bson:"track" json:"track"`
	TrackDetails string     `bson:"trackDetails" json:"trackDetails"`
	Proficiency  int64      `bson:"proficiency" json:"proficiency"`
	LevelOne     string     `bson:"levelOne" json:"levelOne"`
	LevelTwo     string     `bson:"levelTwo" json:"levelTwo"`
	LevelThree   string     `bson:"levelThree" json:"levelThree"`
	LevelFour    string     `bson:"levelFour" json:"levelFour"`
	LevelOthers  string     `bson:"levelOthers" json:"levelOthers"`
	Confirmed    bool       `bson:"confirmed" json:"confirmed"`
	Comments     []Comment  `bson:"comments" json:"comments"`
	CreatedAt    time.Time  `bson:"createdAt" json:"createdAt"`
	ConfirmedAt  *time.Time `bson:"confirmedAt,omitempty" json:"confirmedAt,omitempty"`
	LedgerStatus string     `bson:"ledgerStatus,omitempty" json:"ledgerStatus,omitempty"`
	LedgerError  string     `bson:"ledgerError,omitempty" json:"ledgerError,omitempty"`
}

type Comment struct {
	Message        string    `bson:"message" json:"message"`
	SenderName     string    `bson:"senderName" json:"senderName"`
	SenderID       int64     `bson:"senderId" json:"senderId"`
	NewProficiency int64     `bson:"newProficiency" json:"newProficiency"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}

// LedgerSkill is the flattened shape the contract stores for a confirmed skill.
type LedgerSkill struct {
	SkillID      int64  `json:"skillId"`
	Track        string `json:"track"`
	TrackDetails string `json:"trackDetails"`
	Proficiency  int64  `json:"proficiency"`
	LevelOne     string `json:"levelOne"`
	LevelTwo     string `json:"levelTwo"`
	LevelThree   string `json:"levelThree"`
	LevelFour    string `json:"levelFour"`
	LevelOthers  string `json:"levelOthers"`
}

// MarshalJSON also writes the proficiency under the contract's own key
// "profiency", which existing readers of the ledger endpoint expect.
func (l LedgerSkill) MarshalJSON() ([]byte, error) {
	type plain LedgerSkill
	return json.Marshal(struct {
		plain
		Profiency int64 `json:"profiency"`
	}{plain: plain(l), Profiency: l.Proficiency})
}

func (s Skill) Ledger() LedgerSkill {
	return LedgerSkill{
		SkillID:      s.SkillID,
		Track:        s.Track,
		TrackDetails: s.TrackDetails,
		Proficiency:  s.Proficiency,
		LevelOne:     s.LevelOne,
		LevelTwo:     s.LevelTwo,
		LevelThree:   s.LevelThree,
		LevelFour:    s.LevelFour,
		LevelOthers:  s.LevelOthers,
	}
}

type LedgerReceipt struct {
	TxHash      string `json:"txHash"`
	BlockNumber uint64 `json:"blockNumber"`
	GasUsed     uint64 `json:"gasUsed"`
	Status      uint64 `json:"status"`
}

// SkillRef addresses an embedded skill by uid, or by array position when no
// uid is given.
type SkillRef struct {
	UID   string
	Index *int
}

func (r SkillRef) IsZero() bool {
	return strings.TrimSpace(r.UID) == "" && r.Index == nil
}

func (r SkillRef) String() string {
	if r.UID != "" {
		return "uid=" + r.UID
	}
	if r.Index != nil {
		return "idx=" + strconv.Itoa(*r.Index)
	}
	return "<none>"
}

// FindSkill resolves ref against the embedded skills and returns the entry
// with its position.
func (e Employee) FindSkill(ref SkillRef) (Skill, int, error) {
	if uid := strings.TrimSpace(ref.UID); uid != "" {
		for i, s := range e.Skills {
			if s.UID == uid {
				return s, i, nil
			}
		}
		return Skill{}, -1, ErrSkillNotFound
	}
	if ref.Index == nil {
		return Skill{}, -1, ErrSkillNotFound
	}
	i := *ref.Index
	if i < 0 || i >= len(e.Skills) {
		return Skill{}, -1, ErrSkillNotFound
	}
	return e.Skills[i], i, nil
}

var reservedKeys = map[string]struct{}{
	"_id":      {},
	"empId":    {},
	"email":    {},
	"verified": {},
	"skills":   {},
}

func (e Employee) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(e.Profile)+len(reservedKeys))
	for k, v := range e.Profile {
		if _, ok := reservedKeys[k]; ok {
			continue
		}
		out[k] = v
	}
	out["_id"] = e.ID
	out["empId"] = e.ID
	if e.Email != "" {
		out["email"] = e.Email
	}
	out["verified"] = e.Verified
	skills := e.Skills
	if skills == nil {
		skills = []Skill{}
	}
	out["skills"] = skills
	return json.Marshal(out)
}

func (e *Employee) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*e = Employee{Profile: map[string]interface{}{}}
	for k, v := range raw {
		switch k {
		case "_id":
		case "empId":
			id, err := ParseID(v)
			if err != nil {
				return fmt.Errorf("empId: %w", err)
			}
			e.EmpID = id
			e.ID = id
		case "email":
			if err := json.Unmarshal(v, &e.Email); err != nil {
				return fmt.Errorf("email: %w", err)
			}
		case "verified":
			if err := json.Unmarshal(v, &e.Verified); err != nil {
				return fmt.Errorf("verified: %w", err)
			}
		case "skills":
			if err := json.Unmarshal(v, &e.Skills); err != nil {
				return fmt.Errorf("skills: %w", err)
			}
		default:
			val, err := decodeValue(v)
			if err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
			e.Profile[k] = val
		}
	}
	return nil
}

// ParseID accepts a JSON number or a numeric string.
func ParseID(raw json.RawMessage) (int64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, nil
		}
		return strconv.ParseInt(s, 10, 64)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, err
	}
	return n.Int64()
}

func decodeValue(raw json.RawMessage) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return normalizeValue(v), nil
}

// normalizeValue turns json.Number into int64 or float64 so the value is
// stored as a BSON number rather than a string.
func normalizeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case map[string]interface{}:
		for k, vv := range t {
			t[k] = normalizeValue(vv)
		}
		return t
	case []interface{}:
		for i, vv := range t {
			t[i] = normalizeValue(vv)
		}
		return t
	default:
		return v
	}
}
