package employee

import "time"

const (
	EventSkillProposed     = "skill.proposed"
	EventSkillConfirmed    = "skill.confirmed"
	EventSkillMirrorFailed = "skill.mirror_failed"
)

type SkillEvent struct {
	Type      string    `json:"type"`
	EmpID     int64     `json:"empId"`
	ManagerID int64     `json:"managerId"`
	SkillUID  string    `json:"skillUid"`
	Timestamp time.Time `json:"timestamp"`
}
