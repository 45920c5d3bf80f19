package query

import (
	"slices"

	"github.com/learnhub/learning-api/internal/types"
)

// EnrollmentFilter restricts enrollments by student and/or course.
type EnrollmentFilter struct {
	StudentID string
	CourseID  string
}

// FilterEnrollments returns the matching enrollments, newest first.
func FilterEnrollments(enrollments []types.Enrollment, f EnrollmentFilter) []types.Enrollment {
	out := make([]types.Enrollment, 0)
	for _, e := range enrollments {
		if f.StudentID != "" && e.StudentID != f.StudentID {
			continue
		}
		if f.CourseID != "" && e.CourseID != f.CourseID {
			continue
		}
		out = append(out, e)
	}
	slices.SortStableFunc(out, func(a, b types.Enrollment) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}
