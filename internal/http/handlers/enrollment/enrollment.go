// Package enrollment contains the HTTP handlers that create, read and
// remove enrollments. None of them check that the referenced student or
// course exists.
package enrollment

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/learnhub/learning-api/internal/query"
	"github.com/learnhub/learning-api/internal/storage"
	"github.com/learnhub/learning-api/internal/types"
	"github.com/learnhub/learning-api/internal/utils/request"
	"github.com/learnhub/learning-api/internal/utils/response"
	"github.com/learnhub/learning-api/internal/utils/validate"
)

// CreateRequest is the body of POST /enrollments.
type CreateRequest struct {
	StudentID string  `json:"student_id" validate:"required"`
	CourseID  string  `json:"course_id" validate:"required"`
	TutorID   *string `json:"tutor_id"`
}

// ListResponse is a page of enrollments.
type ListResponse struct {
	Enrollments []types.Enrollment `json:"enrollments"`
	query.Page
}

// NewID returns a fresh enrollment identifier.
func NewID() string {
	return "enrollment_" + uuid.NewString()
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /enrollments
//
// Request body (JSON):
//
//	{ "student_id": "user_123", "course_id": "course_1", "tutor_id": "tutor_1" }
//
// Responses:
//
//	201 Created   the new enrollment
//	400           empty body, malformed JSON, missing ids
//	409 Conflict  the student is already enrolled in that course
//
// ─────────────────────────────────────────────────────────────────────────────
func New(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating an enrollment")

		var req CreateRequest
		if err := request.DecodeJSON(w, r, &req); err != nil {
			response.BadRequest(w, err)
			return
		}

		req.StudentID = strings.TrimSpace(req.StudentID)
		req.CourseID = strings.TrimSpace(req.CourseID)
		if err := validate.Struct(req); err != nil {
			response.BadRequest(w, err)
			return
		}

		e := types.Enrollment{
			ID:        NewID(),
			CreatedAt: time.Now().UTC(),
			StudentID: req.StudentID,
			CourseID:  req.CourseID,
			TutorID:   req.TutorID,
		}
		if err := storage.CreateEnrollment(e); err != nil {
			slog.Info("enrollment rejected",
				slog.String("student_id", e.StudentID),
				slog.String("course_id", e.CourseID),
				slog.String("error", err.Error()))
			response.StorageError(w, err)
			return
		}

		slog.Info("enrollment created", slog.String("id", e.ID))
		response.WriteJSON(w, http.StatusCreated, e)
	}
}

// GetList handles GET /enrollments with optional student_id and course_id
// filters, newest first.
func GetList(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := r.URL.Query()
		filter := query.EnrollmentFilter{
			StudentID: strings.TrimSpace(v.Get("student_id")),
			CourseID:  strings.TrimSpace(v.Get("course_id")),
		}
		slog.Info("listing enrollments",
			slog.String("student_id", filter.StudentID),
			slog.String("course_id", filter.CourseID))

		p, err := query.ParsePagination(v.Get("limit"), v.Get("offset"), query.DefaultLimit)
		if err != nil {
			response.BadRequest(w, err)
			return
		}

		all, err := storage.GetEnrollments()
		if err != nil {
			response.StorageError(w, err)
			return
		}

		page, meta := query.Paginate(query.FilterEnrollments(all, filter), p)
		response.WriteJSON(w, http.StatusOK, ListResponse{Enrollments: page, Page: meta})
	}
}

// GetByID handles GET /enrollments/{id}.
func GetByID(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		slog.Info("getting an enrollment", slog.String("id", id))

		e, err := storage.GetEnrollmentByID(id)
		if err != nil {
			response.StorageError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, e)
	}
}

// Status handles GET /enrollments/status?student_id=...&course_id=...
// and reports whether the pair is enrolled.
func Status(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID := strings.TrimSpace(r.URL.Query().Get("student_id"))
		courseID := strings.TrimSpace(r.URL.Query().Get("course_id"))

		if studentID == "" || courseID == "" {
			response.BadRequest(w, errors.New("query parameters student_id and course_id are required"))
			return
		}

		all, err := storage.GetEnrollments()
		if err != nil {
			response.StorageError(w, err)
			return
		}

		matches := query.FilterEnrollments(all, query.EnrollmentFilter{StudentID: studentID, CourseID: courseID})
		out := map[string]any{"enrolled": len(matches) > 0}
		if len(matches) > 0 {
			out["enrollment"] = matches[0]
		}
		response.WriteJSON(w, http.StatusOK, out)
	}
}

// Delete handles DELETE /enrollments/{id}.
func Delete(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		slog.Info("deleting an enrollment", slog.String("id", id))

		if err := storage.DeleteEnrollmentByID(id); err != nil {
			response.StorageError(w, err)
			return
		}

		slog.Info("enrollment deleted", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, response.OK("enrollment deleted"))
	}
}

// Unenroll handles DELETE /enrollments/student/{studentId}/course/{courseId}.
func Unenroll(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		studentID, courseID := vars["studentId"], vars["courseId"]
		slog.Info("unenrolling",
			slog.String("student_id", studentID),
			slog.String("course_id", courseID))

		if err := storage.DeleteEnrollmentByPair(studentID, courseID); err != nil {
			response.StorageError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, response.OK("unenrolled successfully"))
	}
}
