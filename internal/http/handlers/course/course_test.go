package course

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"github.com/learnhub/learning-api/internal/storage"
	"github.com/learnhub/learning-api/internal/storage/memory"
)

func setupRouter(t *testing.T) *mux.Router {
	t.Helper()

	store := memory.New()
	if _, err := storage.Seed(store, storage.DefaultSeed("")); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	r := mux.NewRouter()
	r.HandleFunc("/courses", GetList(store)).Methods(http.MethodGet)
	r.HandleFunc("/courses/featured", GetFeatured(store)).Methods(http.MethodGet)
	r.HandleFunc("/courses/categories", GetCategories(store)).Methods(http.MethodGet)
	r.HandleFunc("/courses/category/{category}", GetByCategory(store)).Methods(http.MethodGet)
	r.HandleFunc("/courses/search", Search(store)).Methods(http.MethodGet)
	r.HandleFunc("/courses/{id}", GetByID(store)).Methods(http.MethodGet)
	r.HandleFunc("/courses/{id}/similar", GetSimilar(store)).Methods(http.MethodGet)
	return r
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func decodeList(t *testing.T, rr *httptest.ResponseRecorder) (ids []string, total, page int) {
	t.Helper()
	var out struct {
		Courses []struct {
			ID string `json:"id"`
		} `json:"courses"`
		Total int `json:"total"`
		Page  int `json:"page"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("json.Unmarshal: %v (%s)", err, rr.Body.String())
	}
	for _, c := range out.Courses {
		ids = append(ids, c.ID)
	}
	return ids, out.Total, out.Page
}

func mustStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rr.Code != expected {
		t.Fatalf("expected status %d, got %d: %s", expected, rr.Code, rr.Body.String())
	}
}

func TestGetList_Scenarios(t *testing.T) {
	r := setupRouter(t)

	tests := []struct {
		target    string
		want      []string
		wantTotal int
		wantPage  int
	}{
		{"/courses?level=Beginner", []string{"course_1"}, 1, 1},
		{"/courses?sortBy=price-high", []string{"course_2", "course_1"}, 2, 1},
		{"/courses?limit=1&offset=1", []string{"course_2"}, 2, 2},
		{"/courses?category=Cooking", nil, 0, 1},
		{"/courses?featured=true&minPrice=100", []string{"course_2"}, 1, 1},
	}

	for _, tt := range tests {
		rr := get(t, r, tt.target)
		mustStatus(t, rr, http.StatusOK)

		ids, total, page := decodeList(t, rr)
		if len(ids) != len(tt.want) {
			t.Errorf("%s: got %v, want %v", tt.target, ids, tt.want)
			continue
		}
		for i := range ids {
			if ids[i] != tt.want[i] {
				t.Errorf("%s: got %v, want %v", tt.target, ids, tt.want)
			}
		}
		if total != tt.wantTotal || page != tt.wantPage {
			t.Errorf("%s: total=%d page=%d, want %d/%d", tt.target, total, page, tt.wantTotal, tt.wantPage)
		}
	}
}

func TestGetList_EmptyListIsArray(t *testing.T) {
	rr := get(t, setupRouter(t), "/courses?category=Cooking")
	mustStatus(t, rr, http.StatusOK)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(rr.Body.Bytes(), &raw); err != nil {
		t.Fatal(err)
	}
	if string(raw["courses"]) != "[]" {
		t.Errorf("courses = %s, want []", raw["courses"])
	}
}

func TestGetList_InvalidParam(t *testing.T) {
	rr := get(t, setupRouter(t), "/courses?minPrice=cheap")
	mustStatus(t, rr, http.StatusBadRequest)
}

func TestSearch(t *testing.T) {
	r := setupRouter(t)

	rr := get(t, r, "/courses/search?q=react")
	mustStatus(t, rr, http.StatusOK)
	if ids, total, _ := decodeList(t, rr); len(ids) != 1 || ids[0] != "course_2" || total != 1 {
		t.Errorf("search react = %v (total %d)", ids, total)
	}

	mustStatus(t, get(t, r, "/courses/search"), http.StatusBadRequest)
	mustStatus(t, get(t, r, "/courses/search?q=%20%20"), http.StatusBadRequest)
}

func TestGetByCategory_NotFoundAsymmetry(t *testing.T) {
	r := setupRouter(t)

	rr := get(t, r, "/courses/category/Web%20Development")
	mustStatus(t, rr, http.StatusOK)
	if ids, total, _ := decodeList(t, rr); len(ids) != 2 || total != 2 {
		t.Errorf("got %v (total %d)", ids, total)
	}

	mustStatus(t, get(t, r, "/courses/category/Cooking"), http.StatusNotFound)
	mustStatus(t, get(t, r, "/courses?category=Cooking"), http.StatusOK)
}

func TestFeaturedAndCategories(t *testing.T) {
	r := setupRouter(t)

	rr := get(t, r, "/courses/featured?limit=1")
	mustStatus(t, rr, http.StatusOK)
	if ids, total, _ := decodeList(t, rr); len(ids) != 1 || ids[0] != "course_1" || total != 2 {
		t.Errorf("featured = %v (total %d)", ids, total)
	}

	rr = get(t, r, "/courses/categories")
	mustStatus(t, rr, http.StatusOK)
	var out struct {
		Categories []struct {
			Name  string `json:"name"`
			Count int    `json:"count"`
		} `json:"categories"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Categories) != 1 || out.Categories[0].Name != "Web Development" || out.Categories[0].Count != 2 {
		t.Errorf("categories = %+v", out.Categories)
	}
}

func TestGetByIDAndSimilar(t *testing.T) {
	r := setupRouter(t)

	rr := get(t, r, "/courses/course_2")
	mustStatus(t, rr, http.StatusOK)
	var c struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &c); err != nil || c.Title != "Advanced React Patterns" {
		t.Errorf("course = %+v, %v", c, err)
	}

	mustStatus(t, get(t, r, "/courses/nope"), http.StatusNotFound)
	mustStatus(t, get(t, r, "/courses/nope/similar"), http.StatusNotFound)

	rr = get(t, r, "/courses/course_1/similar")
	mustStatus(t, rr, http.StatusOK)
	if ids, _, _ := decodeList(t, rr); len(ids) != 1 || ids[0] != "course_2" {
		t.Errorf("similar = %v", ids)
	}
}
