package dto

import "skill-ledger/internal/domain/employee"

type VerificationResponse struct {
	EmpID    int64 `json:"empId"`
	Verified int   `json:"verified"`
}

type LedgerSkillsResponse struct {
	Skills []employee.LedgerSkill `json:"skills"`
}

type BackendErrorResponse struct {
	Error string `json:"error"`
}
