package memory

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/learnhub/learning-api/internal/storage"
	"github.com/learnhub/learning-api/internal/types"
)

func seeded(t *testing.T) *Memory {
	t.Helper()
	m := New()
	if _, err := storage.Seed(m, storage.DefaultSeed("")); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	return m
}

func TestSeed_OnlyOnce(t *testing.T) {
	m := seeded(t)

	wrote, err := storage.Seed(m, storage.DefaultSeed(""))
	if err != nil {
		t.Fatalf("second Seed() error = %v", err)
	}
	if wrote {
		t.Error("second Seed() should not write into a populated store")
	}
	courses, _ := m.GetCourses()
	if len(courses) != 2 {
		t.Errorf("expected 2 courses, got %d", len(courses))
	}
}

func TestCreateEnrollment_DuplicatePair(t *testing.T) {
	m := seeded(t)

	err := m.CreateEnrollment(types.Enrollment{
		ID:        "enrollment_dup",
		CreatedAt: time.Now(),
		StudentID: "user_123",
		CourseID:  "course_1",
	})
	if !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	all, _ := m.GetEnrollments()
	if len(all) != 2 {
		t.Errorf("duplicate must not be stored, have %d enrollments", len(all))
	}
}

func TestCreateEnrollment_ConcurrentSamePair(t *testing.T) {
	m := New()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- m.CreateEnrollment(types.Enrollment{
				ID:        fmt.Sprintf("enrollment_%d", i),
				StudentID: "user_1",
				CourseID:  "course_1",
			})
		}(i)
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
		} else if !errors.Is(err, storage.ErrConflict) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Errorf("expected exactly one successful insert, got %d", ok)
	}
}

func TestDeleteEnrollment(t *testing.T) {
	m := seeded(t)

	if err := m.DeleteEnrollmentByID("missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if all, _ := m.GetEnrollments(); len(all) != 2 {
		t.Fatalf("failed delete changed store size to %d", len(all))
	}

	if err := m.DeleteEnrollmentByID("enrollment_1"); err != nil {
		t.Fatalf("DeleteEnrollmentByID() error = %v", err)
	}
	if err := m.DeleteEnrollmentByPair("user_456", "course_2"); err != nil {
		t.Fatalf("DeleteEnrollmentByPair() error = %v", err)
	}
	if err := m.DeleteEnrollmentByPair("user_456", "course_2"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second pair delete: expected ErrNotFound, got %v", err)
	}
	if all, _ := m.GetEnrollments(); len(all) != 0 {
		t.Errorf("expected empty store, got %d", len(all))
	}
}

func TestGetters_ReturnCopies(t *testing.T) {
	m := seeded(t)

	c, err := m.GetCourseByID("course_1")
	if err != nil {
		t.Fatal(err)
	}
	c.Tags[0] = "mutated"
	*c.Rating = 0

	again, _ := m.GetCourseByID("course_1")
	if again.Tags[0] == "mutated" || again.RatingOrZero() == 0 {
		t.Error("mutating a returned course leaked into the store")
	}
}

func TestStudents(t *testing.T) {
	m := seeded(t)

	if err := m.CreateStudent(types.Student{ID: "user_123"}); !errors.Is(err, storage.ErrConflict) {
		t.Errorf("expected ErrConflict on duplicate profile, got %v", err)
	}
	if err := m.UpdateStudent(types.Student{ID: "nobody"}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound on update, got %v", err)
	}

	s, _ := m.GetStudentByID("user_123")
	s.DisplayName = "Johnny"
	if err := m.UpdateStudent(s); err != nil {
		t.Fatal(err)
	}
	got, _ := m.GetStudentByID("user_123")
	if got.DisplayName != "Johnny" {
		t.Errorf("DisplayName = %q", got.DisplayName)
	}
}

func TestUsers(t *testing.T) {
	m := seeded(t)

	err := m.CreateUser(types.User{ID: "user_999", Email: "JOHN.DOE@example.com"})
	if !errors.Is(err, storage.ErrConflict) {
		t.Errorf("email match should be case-insensitive, got %v", err)
	}
	u, err := m.GetUserByEmail("Jane.Smith@example.com")
	if err != nil || u.ID != "user_456" {
		t.Errorf("GetUserByEmail() = %+v, %v", u, err)
	}
	if _, err := m.GetUserByID("nope"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
