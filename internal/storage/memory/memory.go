// Package memory provides an in-process implementation of the
// storage.Storage interface. Records live in insertion-ordered slices and
// every access goes through one RWMutex.
//
// Nothing survives a restart. Use the sqlite backend for that.
package memory

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/learnhub/learning-api/internal/storage"
	"github.com/learnhub/learning-api/internal/types"
)

// Memory is the in-process record store.
type Memory struct {
	mu          sync.RWMutex
	users       []types.User
	students    []types.Student
	courses     []types.Course
	enrollments []types.Enrollment
}

// New returns an empty store.
func New() *Memory {
	return &Memory{}
}

func (m *Memory) CreateUser(user types.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.ID == user.ID {
			return fmt.Errorf("CreateUser: id %s: %w", user.ID, storage.ErrConflict)
		}
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("CreateUser: email %s: %w", user.Email, storage.ErrConflict)
		}
	}
	m.users = append(m.users, user)
	return nil
}

func (m *Memory) GetUserByID(id string) (types.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return types.User{}, fmt.Errorf("no user found with id %s: %w", id, storage.ErrNotFound)
}

func (m *Memory) GetUserByEmail(email string) (types.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return types.User{}, fmt.Errorf("no user found with email %s: %w", email, storage.ErrNotFound)
}

func (m *Memory) GetUsers() ([]types.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append(make([]types.User, 0, len(m.users)), m.users...), nil
}

func (m *Memory) CreateStudent(student types.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.studentIndex(student.ID) >= 0 {
		return fmt.Errorf("CreateStudent: id %s: %w", student.ID, storage.ErrConflict)
	}
	m.students = append(m.students, cloneStudent(student))
	return nil
}

func (m *Memory) GetStudentByID(id string) (types.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.studentIndex(id)
	if i < 0 {
		return types.Student{}, fmt.Errorf("no student found with id %s: %w", id, storage.ErrNotFound)
	}
	return cloneStudent(m.students[i]), nil
}

func (m *Memory) GetStudents() ([]types.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.Student, 0, len(m.students))
	for _, s := range m.students {
		out = append(out, cloneStudent(s))
	}
	return out, nil
}

func (m *Memory) UpdateStudent(student types.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.studentIndex(student.ID)
	if i < 0 {
		return fmt.Errorf("UpdateStudent: id %s: %w", student.ID, storage.ErrNotFound)
	}
	m.students[i] = cloneStudent(student)
	return nil
}

func (m *Memory) CreateCourse(course types.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.courses {
		if c.ID == course.ID {
			return fmt.Errorf("CreateCourse: id %s: %w", course.ID, storage.ErrConflict)
		}
	}
	m.courses = append(m.courses, cloneCourse(course))
	return nil
}

func (m *Memory) GetCourseByID(id string) (types.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.courses {
		if c.ID == id {
			return cloneCourse(c), nil
		}
	}
	return types.Course{}, fmt.Errorf("no course found with id %s: %w", id, storage.ErrNotFound)
}

func (m *Memory) GetCourses() ([]types.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.Course, 0, len(m.courses))
	for _, c := range m.courses {
		out = append(out, cloneCourse(c))
	}
	return out, nil
}

func (m *Memory) CreateEnrollment(enrollment types.Enrollment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.enrollments {
		if e.ID == enrollment.ID {
			return fmt.Errorf("CreateEnrollment: id %s: %w", enrollment.ID, storage.ErrConflict)
		}
		if e.StudentID == enrollment.StudentID && e.CourseID == enrollment.CourseID {
			return fmt.Errorf("CreateEnrollment: student %s already enrolled in %s: %w",
				enrollment.StudentID, enrollment.CourseID, storage.ErrConflict)
		}
	}
	m.enrollments = append(m.enrollments, cloneEnrollment(enrollment))
	return nil
}

func (m *Memory) GetEnrollmentByID(id string) (types.Enrollment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, e := range m.enrollments {
		if e.ID == id {
			return cloneEnrollment(e), nil
		}
	}
	return types.Enrollment{}, fmt.Errorf("no enrollment found with id %s: %w", id, storage.ErrNotFound)
}

func (m *Memory) GetEnrollments() ([]types.Enrollment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.Enrollment, 0, len(m.enrollments))
	for _, e := range m.enrollments {
		out = append(out, cloneEnrollment(e))
	}
	return out, nil
}

func (m *Memory) DeleteEnrollmentByID(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := slices.IndexFunc(m.enrollments, func(e types.Enrollment) bool { return e.ID == id })
	if i < 0 {
		return fmt.Errorf("no enrollment found with id %s: %w", id, storage.ErrNotFound)
	}
	m.enrollments = slices.Delete(m.enrollments, i, i+1)
	return nil
}

func (m *Memory) DeleteEnrollmentByPair(studentID, courseID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := slices.IndexFunc(m.enrollments, func(e types.Enrollment) bool {
		return e.StudentID == studentID && e.CourseID == courseID
	})
	if i < 0 {
		return fmt.Errorf("no enrollment found for student %s in course %s: %w",
			studentID, courseID, storage.ErrNotFound)
	}
	m.enrollments = slices.Delete(m.enrollments, i, i+1)
	return nil
}

// Close is a no-op; it exists to satisfy storage.Storage.
func (m *Memory) Close() error {
	return nil
}

// studentIndex must be called with mu held.
func (m *Memory) studentIndex(id string) int {
	return slices.IndexFunc(m.students, func(s types.Student) bool { return s.ID == id })
}

// The clone helpers copy pointer and slice fields so callers never share
// memory with the store.

func cloneStudent(s types.Student) types.Student {
	if s.AcademicLevel != nil {
		s.AcademicLevel = types.Ptr(*s.AcademicLevel)
	}
	if s.ProfilePicture != nil {
		s.ProfilePicture = types.Ptr(*s.ProfilePicture)
	}
	return s
}

func cloneCourse(c types.Course) types.Course {
	if c.OriginalPrice != nil {
		c.OriginalPrice = types.Ptr(*c.OriginalPrice)
	}
	if c.Rating != nil {
		c.Rating = types.Ptr(*c.Rating)
	}
	if c.ReviewCount != nil {
		c.ReviewCount = types.Ptr(*c.ReviewCount)
	}
	if c.StudentCount != nil {
		c.StudentCount = types.Ptr(*c.StudentCount)
	}
	c.Tags = slices.Clone(c.Tags)
	return c
}

func cloneEnrollment(e types.Enrollment) types.Enrollment {
	if e.TutorID != nil {
		e.TutorID = types.Ptr(*e.TutorID)
	}
	return e
}
