package dto

import (
	"encoding/json"
	"strings"

	"skill-ledger/internal/domain/employee"
	"skill-ledger/internal/usecase"
)

type EmpIDRequest struct {
	EmpID json.RawMessage `json:"empId"`
}

func (r EmpIDRequest) ID() (int64, error) {
	return employee.ParseID(r.EmpID)
}

type SkillPayload struct {
	ManagerEmail string `json:"managerEmail"`
	SkillID      int64  `json:"skillId"`
	Track        string `json:"track"`
	TrackDetails string `json:"trackDetails"`
	Proficiency  int64  `json:"proficiency"`
	// Profiency is the contract's spelling, still sent by older clients.
	Profiency    *int64 `json:"profiency"`
	LevelOne     string `json:"levelOne"`
	LevelTwo     string `json:"levelTwo"`
	LevelThree   string `json:"levelThree"`
	LevelFour    string `json:"levelFour"`
	LevelOthers  string `json:"levelOthers"`
}

func (p SkillPayload) Input() usecase.SkillInput {
	prof := p.Proficiency
	if prof == 0 && p.Profiency != nil {
		prof = *p.Profiency
	}
	return usecase.SkillInput{
		ManagerEmail: p.ManagerEmail,
		SkillID:      p.SkillID,
		Track:        p.Track,
		TrackDetails: p.TrackDetails,
		Proficiency:  prof,
		LevelOne:     p.LevelOne,
		LevelTwo:     p.LevelTwo,
		LevelThree:   p.LevelThree,
		LevelFour:    p.LevelFour,
		LevelOthers:  p.LevelOthers,
	}
}

type SkillAddRequest struct {
	EmpIDRequest
	Skill SkillPayload `json:"skill"`
}

type SkillRefRequest struct {
	EmpIDRequest
	SkillIdx *int   `json:"skillIdx"`
	SkillUID string `json:"skillUid"`
}

func (r SkillRefRequest) Ref() employee.SkillRef {
	return employee.SkillRef{UID: strings.TrimSpace(r.SkillUID), Index: r.SkillIdx}
}

type CommentPayload struct {
	Message        string `json:"message"`
	SenderName     string `json:"senderName"`
	SenderID       int64  `json:"senderId"`
	NewProficiency int64  `json:"newProficiency"`
}

type SkillCommentRequest struct {
	SkillRefRequest
	Comment CommentPayload `json:"comment"`
}

type ManagerRequest struct {
	ManagerID json.RawMessage `json:"managerId"`
}

func (r ManagerRequest) ID() (int64, error) {
	return employee.ParseID(r.ManagerID)
}

type SearchRequest struct {
	Query      string `json:"query"`
	Loc        string `json:"loc"`
	Date       string `json:"date"`
	SortByProf bool   `json:"sortByProf"`
}
