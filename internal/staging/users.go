package staging

import (
	"sort"
	"strings"

	"martforge/internal/bucket"
	"martforge/pkg/errors"
	"martforge/pkg/models"
)

// Users cleans raw user rows. Derived fields: full name, age group.
// Output is sorted by user id.
func Users(raw []models.RawUser) ([]models.StagedUser, error) {
	staged := make([]models.StagedUser, 0, len(raw))

	for _, u := range raw {
		if err := validateUser(u); err != nil {
			return nil, err
		}

		first := strings.TrimSpace(u.FirstName)
		last := strings.TrimSpace(u.LastName)

		staged = append(staged, models.StagedUser{
			ID:        u.ID,
			FirstName: first,
			LastName:  last,
			FullName:  strings.TrimSpace(first + " " + last),
			Age:       u.Age,
			AgeGroup:  bucket.AgeGroup(u.Age),
			Gender:    strings.ToLower(strings.TrimSpace(u.Gender)),
			Email:     strings.ToLower(strings.TrimSpace(u.Email)),
			Phone:     strings.TrimSpace(u.Phone),
			City:      strings.TrimSpace(u.City),
			State:     strings.TrimSpace(u.State),
			StateCode: strings.TrimSpace(u.StateCode),
			Country:   strings.TrimSpace(u.Country),
		})
	}

	sort.Slice(staged, func(i, j int) bool { return staged[i].ID < staged[j].ID })
	return staged, nil
}

func validateUser(u models.RawUser) error {
	if u.ID <= 0 {
		return errors.ValidationError("user.id", u.ID, "must be a positive identifier")
	}
	if u.Age < 0 {
		return errors.ValidationError("user.age", u.Age, "must not be negative").
			WithContext("user_id", u.ID)
	}
	return nil
}
