// Package enrich implements the enrichment stage: correcting user
// location fields against the static city/state reference set.
package enrich

import (
	"fmt"
	"sort"

	"martforge/internal/refdata"
	"martforge/pkg/models"
)

// Correction is the derived location output for a single user row.
type Correction struct {
	State        string
	StateCode    string
	WasCorrected bool
}

// CorrectLocation resolves a user's state against the reference set using
// an exact, case-sensitive city match. A match whose canonical state
// differs from the input yields the canonical values with the corrected
// flag set. A match that agrees yields the canonical state code without
// flagging. Unknown cities pass through unchanged.
func CorrectLocation(city, state, stateCode string, ref *refdata.Set) Correction {
	entry, ok := ref.Lookup(city)
	if !ok {
		return Correction{State: state, StateCode: stateCode}
	}

	if entry.State != state {
		return Correction{State: entry.State, StateCode: entry.StateCode, WasCorrected: true}
	}

	return Correction{State: entry.State, StateCode: entry.StateCode}
}

// Label formats the "City, ST" display label. It falls back to the full
// state name when no code is known, and to the bare city when neither is.
func Label(city, state, stateCode string) string {
	switch {
	case city == "":
		return state
	case stateCode != "":
		return fmt.Sprintf("%s, %s", city, stateCode)
	case state != "":
		return fmt.Sprintf("%s, %s", city, state)
	default:
		return city
	}
}

// Users runs location correction over every staged user, producing
// enriched rows sorted by user id. The reference set is read-only; input
// rows are never mutated.
func Users(users []models.StagedUser, ref *refdata.Set) []models.EnrichedUser {
	enriched := make([]models.EnrichedUser, 0, len(users))
	for _, u := range users {
		c := CorrectLocation(u.City, u.State, u.StateCode, ref)
		enriched = append(enriched, models.EnrichedUser{
			StagedUser:         u,
			CorrectedState:     c.State,
			CorrectedStateCode: c.StateCode,
			WasCorrected:       c.WasCorrected,
			Location:           Label(u.City, c.State, c.StateCode),
		})
	}

	sort.Slice(enriched, func(i, j int) bool { return enriched[i].ID < enriched[j].ID })
	return enriched
}

// CountCorrected returns how many rows were corrected, for run reporting.
func CountCorrected(users []models.EnrichedUser) int {
	n := 0
	for _, u := range users {
		if u.WasCorrected {
			n++
		}
	}
	return n
}
