package search

import (
	"strings"

	"skill-ledger/internal/domain/employee"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Fold returns the case-folded form used for matching. A Caser is stateful,
// so a new one is built per call.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// LogQuery is the form a query is counted under in the search log.
func LogQuery(q string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(q))
}

// NormalizeQuery prepares a query for matching and for cache keys.
func NormalizeQuery(q string) string {
	return Fold(strings.TrimSpace(q))
}

// SkillMatches reports whether a normalized query is a substring of any of
// the level fields of s.
func SkillMatches(s employee.LedgerSkill, normalizedQuery string) bool {
	if normalizedQuery == "" {
		return false
	}
	for _, field := range [...]string{s.LevelOne, s.LevelTwo, s.LevelThree, s.LevelFour, s.LevelOthers} {
		if field == "" {
			continue
		}
		if strings.Contains(Fold(field), normalizedQuery) {
			return true
		}
	}
	return false
}

// MatchSkills returns the matching subset of skills, in input order.
func MatchSkills(skills []employee.LedgerSkill, normalizedQuery string) []employee.LedgerSkill {
	out := make([]employee.LedgerSkill, 0)
	for _, s := range skills {
		if SkillMatches(s, normalizedQuery) {
			out = append(out, s)
		}
	}
	return out
}

func MaxProficiency(skills []employee.LedgerSkill) int64 {
	var max int64
	for i, s := range skills {
		if i == 0 || s.Proficiency > max {
			max = s.Proficiency
		}
	}
	return max
}
