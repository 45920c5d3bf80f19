// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles:
// handlers, storage, and the query layer can all import types without
// depending on each other.
package types

import "time"

// AcademicLevel is the educational stage of a student.
type AcademicLevel string

const (
	LevelHighSchool   AcademicLevel = "High School"
	LevelUniversity   AcademicLevel = "University"
	LevelGraduate     AcademicLevel = "Graduate"
	LevelProfessional AcademicLevel = "Professional"
)

// AcademicLevels lists every valid AcademicLevel in display order.
var AcademicLevels = []AcademicLevel{
	LevelHighSchool,
	LevelUniversity,
	LevelGraduate,
	LevelProfessional,
}

// Valid reports whether l is one of the enumerated academic levels.
func (l AcademicLevel) Valid() bool {
	for _, v := range AcademicLevels {
		if l == v {
			return true
		}
	}
	return false
}

// CourseLevel is the difficulty of a course.
type CourseLevel string

const (
	CourseBeginner     CourseLevel = "Beginner"
	CourseIntermediate CourseLevel = "Intermediate"
	CourseAdvanced     CourseLevel = "Advanced"
)

// Valid reports whether l is one of the enumerated course levels.
func (l CourseLevel) Valid() bool {
	switch l {
	case CourseBeginner, CourseIntermediate, CourseAdvanced:
		return true
	}
	return false
}

// User is an account. The password hash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Student is the learner profile attached to a User. By convention the
// profile ID equals the owning user's ID; nothing enforces it.
type Student struct {
	ID             string         `json:"id"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	DisplayName    string         `json:"display_name"`
	AcademicLevel  *AcademicLevel `json:"academic_level"`
	ProfilePicture *string        `json:"profile_picture"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Course is a catalog entry. Optional metrics are pointers so that
// "unknown" is distinguishable from zero in the JSON output.
type Course struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Instructor    string      `json:"instructor"`
	AuthorID      string      `json:"author_id"`
	Price         float64     `json:"price"`
	OriginalPrice *float64    `json:"original_price,omitempty"`
	Rating        *float64    `json:"rating,omitempty"`
	ReviewCount   *int        `json:"review_count,omitempty"`
	StudentCount  *int        `json:"student_count,omitempty"`
	Thumbnail     string      `json:"thumbnail"`
	Category      string      `json:"category"`
	Level         CourseLevel `json:"level"`
	Featured      bool        `json:"featured"`
	Published     bool        `json:"published"`
	CreatedAt     time.Time   `json:"created_at"`
	Duration      string      `json:"duration"`
	Lessons       int         `json:"lessons"`
	Tags          []string    `json:"tags"`
}

// RatingOrZero returns the rating, treating an unknown rating as 0.
func (c Course) RatingOrZero() float64 {
	if c.Rating == nil {
		return 0
	}
	return *c.Rating
}

// StudentCountOrZero returns the student count, treating unknown as 0.
func (c Course) StudentCountOrZero() int {
	if c.StudentCount == nil {
		return 0
	}
	return *c.StudentCount
}

// Enrollment links a student to a course.
type Enrollment struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	StudentID string    `json:"student_id"`
	CourseID  string    `json:"course_id"`
	TutorID   *string   `json:"tutor_id"`
}

// Ptr returns a pointer to v. Handy for optional fields in literals.
func Ptr[T any](v T) *T {
	return &v
}
