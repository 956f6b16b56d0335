package ws

import (
	"encoding/json"
	"strconv"

	"skill-ledger/internal/domain/employee"
)

func ManagerTopic(id int64) string  { return "manager:" + strconv.FormatInt(id, 10) }
func EmployeeTopic(id int64) string { return "employee:" + strconv.FormatInt(id, 10) }

// NotifySkill publishes ev to the owning manager and employee topics.
func (h *Hub) NotifySkill(ev employee.SkillEvent) {
	if h == nil {
		return
	}
	b, err := json.Marshal(ev)
	if err != nil {
		h.logger.Printf("[WS] encode event failed | type=%s err=%v", ev.Type, err)
		return
	}

	topics := make([]string, 0, 2)
	if ev.ManagerID > 0 {
		topics = append(topics, ManagerTopic(ev.ManagerID))
	}
	if ev.EmpID > 0 {
		topics = append(topics, EmployeeTopic(ev.EmpID))
	}
	h.Publish(b, topics...)
}
