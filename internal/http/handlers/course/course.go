// Package course contains the read-only HTTP handlers for the course
// catalog.
//
// Every handler is built by a factory that receives the storage.Storage
// it reads from and returns the http.HandlerFunc the router needs:
//
//	router.HandleFunc("/courses", course.GetList(storage)).Methods(http.MethodGet)
package course

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/learnhub/learning-api/internal/query"
	"github.com/learnhub/learning-api/internal/storage"
	"github.com/learnhub/learning-api/internal/types"
	"github.com/learnhub/learning-api/internal/utils/response"
)

const similarLimit = 4

// ListResponse is a page of courses.
type ListResponse struct {
	Courses []types.Course `json:"courses"`
	query.Page
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /courses
//
// Query parameters (all optional):
//
//	q, category, level, featured, minPrice, maxPrice,
//	sortBy (price-low | price-high | rating | newest | popular), limit, offset
//
// Unknown categories produce an empty page, not a 404.
// ─────────────────────────────────────────────────────────────────────────────
func GetList(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("listing courses", slog.String("query", r.URL.RawQuery))

		q, err := query.ParseCourseQuery(r.URL.Query())
		if err != nil {
			response.BadRequest(w, err)
			return
		}

		writePage(w, storage, q)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Search handles GET /courses/search?q=...
// Same pipeline as GetList, but q is mandatory: 400 when missing or blank.
// ─────────────────────────────────────────────────────────────────────────────
func Search(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term := strings.TrimSpace(r.URL.Query().Get("q"))
		slog.Info("searching courses", slog.String("q", term))

		if term == "" {
			response.BadRequest(w, errors.New("search query parameter q is required"))
			return
		}

		q, err := query.ParseCourseQuery(r.URL.Query())
		if err != nil {
			response.BadRequest(w, err)
			return
		}

		writePage(w, storage, q)
	}
}

func writePage(w http.ResponseWriter, storage storage.Storage, q query.CourseQuery) {
	courses, err := storage.GetCourses()
	if err != nil {
		response.StorageError(w, err)
		return
	}

	page, meta := query.Courses(courses, q)
	response.WriteJSON(w, http.StatusOK, ListResponse{Courses: page, Page: meta})
}

// GetFeatured handles GET /courses/featured: featured courses, most
// popular first, first `limit` (default 20).
func GetFeatured(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("listing featured courses")

		p, err := query.ParsePagination(r.URL.Query().Get("limit"), "", query.DefaultLimit)
		if err != nil {
			response.BadRequest(w, err)
			return
		}

		featured := true
		writePage(w, storage, query.CourseQuery{
			Filter:     query.CourseFilter{Featured: &featured},
			Sort:       query.SortPopular,
			Pagination: p,
		})
	}
}

// GetCategories handles GET /courses/categories.
func GetCategories(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("listing course categories")

		courses, err := storage.GetCourses()
		if err != nil {
			response.StorageError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, map[string]any{
			"categories": query.Categories(courses),
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByCategory handles GET /courses/category/{category}
//
// Unlike GET /courses?category=..., a category with no courses is a 404.
// The front end relies on this to show its "unknown category" page.
// ─────────────────────────────────────────────────────────────────────────────
func GetByCategory(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := mux.Vars(r)["category"]
		slog.Info("listing courses by category", slog.String("category", category))

		q, err := query.ParseCourseQuery(r.URL.Query())
		if err != nil {
			response.BadRequest(w, err)
			return
		}
		q.Filter.Category = category

		courses, err := storage.GetCourses()
		if err != nil {
			response.StorageError(w, err)
			return
		}

		page, meta := query.Courses(courses, q)
		if meta.Total == 0 {
			response.WriteJSON(w, http.StatusNotFound,
				response.GeneralError(errors.New("no courses found in category "+category)))
			return
		}

		response.WriteJSON(w, http.StatusOK, ListResponse{Courses: page, Page: meta})
	}
}

// GetByID handles GET /courses/{id}.
func GetByID(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		slog.Info("getting a course", slog.String("id", id))

		c, err := storage.GetCourseByID(id)
		if err != nil {
			response.StorageError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, c)
	}
}

// GetSimilar handles GET /courses/{id}/similar: other courses in the same
// category, most popular first.
func GetSimilar(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		slog.Info("getting similar courses", slog.String("id", id))

		p, err := query.ParsePagination(r.URL.Query().Get("limit"), "", similarLimit)
		if err != nil {
			response.BadRequest(w, err)
			return
		}

		base, err := storage.GetCourseByID(id)
		if err != nil {
			response.StorageError(w, err)
			return
		}

		courses, err := storage.GetCourses()
		if err != nil {
			response.StorageError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, map[string]any{
			"courses": query.Similar(courses, base, p.Limit),
		})
	}
}
