package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidUpdate is wrapped by every ProfileUpdate.Apply failure.
var ErrInvalidUpdate = errors.New("invalid profile update")

// ProfileUpdate is a partial update of a Student. Omitted fields are left
// alone; provided values are applied as-is, empty strings included.
// Explicit null clears academic_level and profile_picture and is ignored
// for the name fields, which are not nullable.
type ProfileUpdate struct {
	FirstName      Optional[string]        `json:"first_name"`
	LastName       Optional[string]        `json:"last_name"`
	DisplayName    Optional[string]        `json:"display_name"`
	AcademicLevel  Optional[AcademicLevel] `json:"academic_level"`
	ProfilePicture Optional[string]        `json:"profile_picture"`
}

// Empty reports whether no field was provided at all.
func (u ProfileUpdate) Empty() bool {
	return !u.FirstName.Set && !u.LastName.Set && !u.DisplayName.Set &&
		!u.AcademicLevel.Set && !u.ProfilePicture.Set
}

// Apply returns s with the provided fields merged in and UpdatedAt set to
// now. s itself is not modified.
func (u ProfileUpdate) Apply(s Student, now time.Time) (Student, error) {
	if u.FirstName.HasValue() {
		if strings.TrimSpace(u.FirstName.Value) == "" {
			return Student{}, fmt.Errorf("%w: first_name cannot be empty", ErrInvalidUpdate)
		}
		s.FirstName = u.FirstName.Value
	}
	if u.LastName.HasValue() {
		if strings.TrimSpace(u.LastName.Value) == "" {
			return Student{}, fmt.Errorf("%w: last_name cannot be empty", ErrInvalidUpdate)
		}
		s.LastName = u.LastName.Value
	}
	if u.DisplayName.HasValue() {
		s.DisplayName = u.DisplayName.Value
	}
	if u.AcademicLevel.Set {
		if u.AcademicLevel.HasValue() && !u.AcademicLevel.Value.Valid() {
			return Student{}, fmt.Errorf("%w: academic_level %q is not one of High School, University, Graduate, Professional",
				ErrInvalidUpdate, u.AcademicLevel.Value)
		}
		s.AcademicLevel = u.AcademicLevel.Ptr()
	}
	if u.ProfilePicture.Set {
		s.ProfilePicture = u.ProfilePicture.Ptr()
	}

	s.UpdatedAt = now
	return s, nil
}
