package query

import (
	"strings"

	"github.com/learnhub/learning-api/internal/types"
)

// StudentFilter narrows the student directory.
type StudentFilter struct {
	// Search matches first, last or display name, or the owning user's
	// email, ignoring case.
	Search        string
	AcademicLevel types.AcademicLevel
}

// FilterStudents returns matching students in input order. emails maps
// user id to email and may be nil.
func FilterStudents(students []types.Student, emails map[string]string, f StudentFilter) []types.Student {
	needle := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]types.Student, 0, len(students))
	for _, s := range students {
		if f.AcademicLevel != "" && (s.AcademicLevel == nil || *s.AcademicLevel != f.AcademicLevel) {
			continue
		}
		if needle != "" &&
			!containsFold(s.FirstName, needle) &&
			!containsFold(s.LastName, needle) &&
			!containsFold(s.DisplayName, needle) &&
			!containsFold(emails[s.ID], needle) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// LevelCounts tallies students per academic level. Every enumerated level
// is present; students without a level are counted under "Unspecified".
func LevelCounts(students []types.Student) map[string]int {
	counts := make(map[string]int, len(types.AcademicLevels)+1)
	for _, l := range types.AcademicLevels {
		counts[string(l)] = 0
	}
	counts["Unspecified"] = 0

	for _, s := range students {
		if s.AcademicLevel == nil {
			counts["Unspecified"]++
			continue
		}
		counts[string(*s.AcademicLevel)]++
	}
	return counts
}
