package user

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/learnhub/learning-api/internal/storage"
	"github.com/learnhub/learning-api/internal/storage/memory"
	"github.com/learnhub/learning-api/internal/types"
)

func setup(t *testing.T) (*mux.Router, *memory.Memory) {
	t.Helper()

	store := memory.New()
	if _, err := storage.Seed(store, storage.DefaultSeed("")); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	r := mux.NewRouter()
	r.HandleFunc("/users/profile/{userId}", GetProfile(store)).Methods(http.MethodGet)
	r.HandleFunc("/users/profile/{userId}", UpdateProfile(store)).Methods(http.MethodPut)
	r.HandleFunc("/users/create-profile", CreateProfile(store)).Methods(http.MethodPost)
	r.HandleFunc("/users/search", Search(store)).Methods(http.MethodGet)
	r.HandleFunc("/users/stats", Stats(store)).Methods(http.MethodGet)
	r.HandleFunc("/users/{userId}/enrollments", GetEnrollments(store)).Methods(http.MethodGet)
	return r, store
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func mustStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rr.Code != expected {
		t.Fatalf("expected status %d, got %d: %s", expected, rr.Code, rr.Body.String())
	}
}

func TestUpdateProfile_OnlyDisplayName(t *testing.T) {
	r, store := setup(t)
	before, _ := store.GetStudentByID("user_123")

	rr := do(t, r, http.MethodPut, "/users/profile/user_123", `{"display_name":"JD"}`)
	mustStatus(t, rr, http.StatusOK)

	after, _ := store.GetStudentByID("user_123")
	if after.DisplayName != "JD" {
		t.Errorf("DisplayName = %q", after.DisplayName)
	}
	if !after.UpdatedAt.After(before.UpdatedAt) {
		t.Errorf("UpdatedAt not refreshed: %v", after.UpdatedAt)
	}

	after.DisplayName = before.DisplayName
	after.UpdatedAt = before.UpdatedAt
	if !reflect.DeepEqual(after, before) {
		t.Errorf("other fields changed:\n got %+v\nwant %+v", after, before)
	}
}

func TestUpdateProfile_ClearsWithExplicitValues(t *testing.T) {
	r, store := setup(t)

	rr := do(t, r, http.MethodPut, "/users/profile/user_456",
		`{"display_name":"","profile_picture":null,"academic_level":"Graduate"}`)
	mustStatus(t, rr, http.StatusOK)

	got, _ := store.GetStudentByID("user_456")
	if got.DisplayName != "" || got.ProfilePicture != nil {
		t.Errorf("explicit empty/null not applied: %+v", got)
	}
	if got.AcademicLevel == nil || *got.AcademicLevel != types.LevelGraduate {
		t.Errorf("academic level = %v", got.AcademicLevel)
	}
}

func TestUpdateProfile_Errors(t *testing.T) {
	r, _ := setup(t)

	mustStatus(t, do(t, r, http.MethodPut, "/users/profile/ghost", `{"display_name":"x"}`), http.StatusNotFound)
	mustStatus(t, do(t, r, http.MethodPut, "/users/profile/user_123", ``), http.StatusBadRequest)
	mustStatus(t, do(t, r, http.MethodPut, "/users/profile/user_123", `{"academic_level":"PhD"}`), http.StatusBadRequest)
}

func TestCreateAndGetProfile(t *testing.T) {
	r, _ := setup(t)

	rr := do(t, r, http.MethodPost, "/users/create-profile",
		`{"user_id":"user_789","first_name":"Ada","last_name":"Lovelace","academic_level":"Graduate"}`)
	mustStatus(t, rr, http.StatusCreated)

	rr = do(t, r, http.MethodGet, "/users/profile/user_789", "")
	mustStatus(t, rr, http.StatusOK)
	var st types.Student
	if err := json.Unmarshal(rr.Body.Bytes(), &st); err != nil {
		t.Fatal(err)
	}
	if st.DisplayName != "Ada Lovelace" {
		t.Errorf("default display name = %q", st.DisplayName)
	}

	mustStatus(t, do(t, r, http.MethodPost, "/users/create-profile",
		`{"user_id":"user_789","first_name":"Ada","last_name":"L"}`), http.StatusConflict)
	mustStatus(t, do(t, r, http.MethodPost, "/users/create-profile",
		`{"user_id":"user_790","first_name":"Ada"}`), http.StatusBadRequest)
	mustStatus(t, do(t, r, http.MethodPost, "/users/create-profile",
		`{"user_id":"user_791","first_name":"A","last_name":"B","academic_level":"Kindergarten"}`), http.StatusBadRequest)
	mustStatus(t, do(t, r, http.MethodGet, "/users/profile/nobody", ""), http.StatusNotFound)
}

func TestGetEnrollments_EmbedsCourse(t *testing.T) {
	r, store := setup(t)
	if err := store.CreateEnrollment(types.Enrollment{ID: "e_orphan", StudentID: "user_123", CourseID: "deleted"}); err != nil {
		t.Fatal(err)
	}

	rr := do(t, r, http.MethodGet, "/users/user_123/enrollments", "")
	mustStatus(t, rr, http.StatusOK)

	var out struct {
		Enrollments []struct {
			ID     string        `json:"id"`
			Course *types.Course `json:"course"`
		} `json:"enrollments"`
		Total int `json:"total"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Total != 2 {
		t.Fatalf("total = %d", out.Total)
	}
	for _, e := range out.Enrollments {
		switch e.ID {
		case "enrollment_1":
			if e.Course == nil || e.Course.ID != "course_1" {
				t.Errorf("course not embedded: %+v", e)
			}
		case "e_orphan":
			if e.Course != nil {
				t.Errorf("orphan should have null course: %+v", e.Course)
			}
		}
	}
}

func TestSearchAndStats(t *testing.T) {
	r, _ := setup(t)

	rr := do(t, r, http.MethodGet, "/users/search?q=jane.smith", "")
	mustStatus(t, rr, http.StatusOK)
	var res SearchResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Total != 1 || res.Users[0].ID != "user_456" || res.Users[0].Email != "jane.smith@example.com" {
		t.Errorf("search = %+v", res)
	}

	rr = do(t, r, http.MethodGet, "/users/search?academic_level=University", "")
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Total != 1 || res.Users[0].ID != "user_123" {
		t.Errorf("level search = %+v", res)
	}

	mustStatus(t, do(t, r, http.MethodGet, "/users/search?academic_level=PhD", ""), http.StatusBadRequest)

	rr = do(t, r, http.MethodGet, "/users/stats", "")
	mustStatus(t, rr, http.StatusOK)
	var stats struct {
		TotalUsers       int            `json:"total_users"`
		TotalStudents    int            `json:"total_students"`
		TotalEnrollments int            `json:"total_enrollments"`
		ByLevel          map[string]int `json:"students_by_level"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.TotalUsers != 2 || stats.TotalStudents != 2 || stats.TotalEnrollments != 2 ||
		stats.ByLevel["University"] != 1 || stats.ByLevel["Professional"] != 1 {
		t.Errorf("stats = %+v", stats)
	}
}
