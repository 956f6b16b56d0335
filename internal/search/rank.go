package search

import (
	"sort"

	"skill-ledger/internal/domain/employee"
)

type Hit struct {
	EmpID          int64                  `json:"empId"`
	Employee       employee.Employee      `json:"employee"`
	Skills         []employee.LedgerSkill `json:"skills"`
	MaxProficiency *int64                 `json:"maxProficiency,omitempty"`
}

// SortByProficiency orders hits by their highest matched proficiency,
// descending. Equal values keep their input order.
func SortByProficiency(hits []Hit) {
	for i := range hits {
		if hits[i].MaxProficiency == nil {
			v := MaxProficiency(hits[i].Skills)
			hits[i].MaxProficiency = &v
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return *hits[i].MaxProficiency > *hits[j].MaxProficiency
	})
}
