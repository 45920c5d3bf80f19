package storage

import (
	"fmt"
	"time"

	"github.com/learnhub/learning-api/internal/types"
)

// SeedData is the fixture set loaded into an empty store at startup.
type SeedData struct {
	Users       []types.User
	Students    []types.Student
	Courses     []types.Course
	Enrollments []types.Enrollment
}

// DefaultSeed returns the two example users, profiles, courses and
// enrollments the front end is developed against. passwordHash is set on
// both users so the demo accounts can sign in.
func DefaultSeed(passwordHash string) SeedData {
	created := time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)
	later := time.Date(2024, time.February, 1, 9, 30, 0, 0, time.UTC)
	university := types.LevelUniversity
	professional := types.LevelProfessional

	return SeedData{
		Users: []types.User{
			{ID: "user_123", Email: "john.doe@example.com", PasswordHash: passwordHash, CreatedAt: created},
			{ID: "user_456", Email: "jane.smith@example.com", PasswordHash: passwordHash, CreatedAt: later},
		},
		Students: []types.Student{
			{
				ID:            "user_123",
				FirstName:     "John",
				LastName:      "Doe",
				DisplayName:   "John Doe",
				AcademicLevel: &university,
				CreatedAt:     created,
				UpdatedAt:     created,
			},
			{
				ID:             "user_456",
				FirstName:      "Jane",
				LastName:       "Smith",
				DisplayName:    "Jane S.",
				AcademicLevel:  &professional,
				ProfilePicture: types.Ptr("https://images.example.com/avatars/jane.png"),
				CreatedAt:      later,
				UpdatedAt:      later,
			},
		},
		Courses: []types.Course{
			{
				ID:            "course_1",
				Title:         "Complete Web Development Bootcamp",
				Description:   "Learn HTML, CSS and JavaScript from scratch and ship your first websites.",
				Instructor:    "Dr. Angela Yu",
				AuthorID:      "tutor_1",
				Price:         99.99,
				OriginalPrice: types.Ptr(199.99),
				Rating:        types.Ptr(4.7),
				ReviewCount:   types.Ptr(2340),
				StudentCount:  types.Ptr(15420),
				Thumbnail:     "https://images.example.com/courses/web-bootcamp.jpg",
				Category:      "Web Development",
				Level:         types.CourseBeginner,
				Featured:      true,
				Published:     true,
				CreatedAt:     created,
				Duration:      "52 hours",
				Lessons:       120,
				Tags:          []string{"HTML", "CSS", "JavaScript"},
			},
			{
				ID:            "course_2",
				Title:         "Advanced React Patterns",
				Description:   "Master hooks, context, render props and performance tuning in large React applications.",
				Instructor:    "Kent C. Dodds",
				AuthorID:      "tutor_2",
				Price:         149.99,
				OriginalPrice: types.Ptr(249.99),
				Rating:        types.Ptr(4.9),
				ReviewCount:   types.Ptr(1120),
				StudentCount:  types.Ptr(8930),
				Thumbnail:     "https://images.example.com/courses/react-patterns.jpg",
				Category:      "Web Development",
				Level:         types.CourseAdvanced,
				Featured:      true,
				Published:     true,
				CreatedAt:     later,
				Duration:      "18 hours",
				Lessons:       64,
				Tags:          []string{"React", "JavaScript", "Frontend"},
			},
		},
		Enrollments: []types.Enrollment{
			{ID: "enrollment_1", CreatedAt: later, StudentID: "user_123", CourseID: "course_1", TutorID: types.Ptr("tutor_1")},
			{ID: "enrollment_2", CreatedAt: later.Add(24 * time.Hour), StudentID: "user_456", CourseID: "course_2"},
		},
	}
}

// Seed loads data into s when s has no courses yet, so restarting a
// persistent backend does not duplicate fixtures. It reports whether
// anything was written.
func Seed(s Storage, data SeedData) (bool, error) {
	existing, err := s.GetCourses()
	if err != nil {
		return false, fmt.Errorf("storage.Seed: list courses: %w", err)
	}
	if len(existing) > 0 {
		return false, nil
	}

	for _, u := range data.Users {
		if err := s.CreateUser(u); err != nil {
			return false, fmt.Errorf("storage.Seed: user %s: %w", u.ID, err)
		}
	}
	for _, st := range data.Students {
		if err := s.CreateStudent(st); err != nil {
			return false, fmt.Errorf("storage.Seed: student %s: %w", st.ID, err)
		}
	}
	for _, c := range data.Courses {
		if err := s.CreateCourse(c); err != nil {
			return false, fmt.Errorf("storage.Seed: course %s: %w", c.ID, err)
		}
	}
	for _, e := range data.Enrollments {
		if err := s.CreateEnrollment(e); err != nil {
			return false, fmt.Errorf("storage.Seed: enrollment %s: %w", e.ID, err)
		}
	}

	return true, nil
}
