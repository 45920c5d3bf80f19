// Package storage defines the Storage interface: the contract that any
// record store must satisfy to back the API.
//
// Handlers depend only on this interface, so the in-process store used by
// default and the SQLite store can be swapped in main.go without touching
// handler code. Tests pass whichever backend they like.
package storage

import (
	"errors"

	"github.com/learnhub/learning-api/internal/types"
)

// Sentinel errors returned (possibly wrapped) by every backend.
// Handlers map them to HTTP statuses with errors.Is.
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

// Storage is the repository contract. Getters return copies; mutating a
// returned record has no effect until it is passed back to an update.
type Storage interface {
	// CreateUser inserts a user. ErrConflict if the id or email is taken.
	CreateUser(user types.User) error
	GetUserByID(id string) (types.User, error)
	GetUserByEmail(email string) (types.User, error)
	// GetUsers returns every user in insertion order (never nil).
	GetUsers() ([]types.User, error)

	// CreateStudent inserts a profile. ErrConflict if one exists for the id.
	CreateStudent(student types.Student) error
	GetStudentByID(id string) (types.Student, error)
	GetStudents() ([]types.Student, error)
	// UpdateStudent replaces the stored profile with the same id.
	UpdateStudent(student types.Student) error

	CreateCourse(course types.Course) error
	GetCourseByID(id string) (types.Course, error)
	GetCourses() ([]types.Course, error)

	// CreateEnrollment inserts an enrollment. The duplicate check on the
	// (student, course) pair is atomic with the insert: ErrConflict.
	CreateEnrollment(enrollment types.Enrollment) error
	GetEnrollmentByID(id string) (types.Enrollment, error)
	GetEnrollments() ([]types.Enrollment, error)
	// DeleteEnrollmentByID removes exactly one record or returns ErrNotFound.
	DeleteEnrollmentByID(id string) error
	// DeleteEnrollmentByPair removes the enrollment for the pair or
	// returns ErrNotFound.
	DeleteEnrollmentByPair(studentID, courseID string) error

	Close() error
}
