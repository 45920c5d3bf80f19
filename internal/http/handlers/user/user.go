// Package user contains the HTTP handlers for student profiles and the
// user directory.
package user

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/learnhub/learning-api/internal/query"
	"github.com/learnhub/learning-api/internal/storage"
	"github.com/learnhub/learning-api/internal/types"
	"github.com/learnhub/learning-api/internal/utils/request"
	"github.com/learnhub/learning-api/internal/utils/response"
	"github.com/learnhub/learning-api/internal/utils/validate"
)

// CreateProfileRequest is the body of POST /users/create-profile.
type CreateProfileRequest struct {
	UserID         string               `json:"user_id" validate:"required"`
	FirstName      string               `json:"first_name" validate:"required"`
	LastName       string               `json:"last_name" validate:"required"`
	DisplayName    string               `json:"display_name"`
	AcademicLevel  *types.AcademicLevel `json:"academic_level" validate:"omitempty,academic_level"`
	ProfilePicture *string              `json:"profile_picture"`
}

// Profile is a student together with the owning user's email, when known.
type Profile struct {
	types.Student
	Email string `json:"email,omitempty"`
}

// SearchResponse is a page of profiles.
type SearchResponse struct {
	Users []Profile `json:"users"`
	query.Page
}

// EnrollmentWithCourse embeds the enrolled course, or null when the
// course id does not resolve.
type EnrollmentWithCourse struct {
	types.Enrollment
	Course *types.Course `json:"course"`
}

// ─────────────────────────────────────────────────────────────────────────────
// GetProfile handles GET /users/profile/{userId}
// 404 when no profile exists for the id.
// ─────────────────────────────────────────────────────────────────────────────
func GetProfile(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["userId"]
		slog.Info("getting a profile", slog.String("user_id", id))

		st, err := storage.GetStudentByID(id)
		if err != nil {
			response.StorageError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, st)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// UpdateProfile handles PUT /users/profile/{userId}
//
// Partial update: only fields present in the body change.
//
//	{ "display_name": "" }            clears the display name
//	{ "profile_picture": null }       removes the picture
//	{ "academic_level": "Graduate" }  sets the level
//
// Responses: 200 with the stored profile, 400 on a bad body, 404 when the
// profile does not exist.
// ─────────────────────────────────────────────────────────────────────────────
func UpdateProfile(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["userId"]
		slog.Info("updating a profile", slog.String("user_id", id))

		var update types.ProfileUpdate
		if err := request.DecodeJSON(w, r, &update); err != nil {
			response.BadRequest(w, err)
			return
		}

		current, err := storage.GetStudentByID(id)
		if err != nil {
			response.StorageError(w, err)
			return
		}

		if update.Empty() {
			response.WriteJSON(w, http.StatusOK, current)
			return
		}

		updated, err := update.Apply(current, time.Now().UTC())
		if err != nil {
			response.BadRequest(w, err)
			return
		}

		if err := storage.UpdateStudent(updated); err != nil {
			slog.Error("error updating profile",
				slog.String("user_id", id),
				slog.String("error", err.Error()))
			response.StorageError(w, err)
			return
		}

		slog.Info("profile updated", slog.String("user_id", id))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// CreateProfile handles POST /users/create-profile
//
// Responses: 201 with the profile, 400 on missing fields, 409 when a
// profile already exists for user_id. The user id is not checked against
// the user table.
// ─────────────────────────────────────────────────────────────────────────────
func CreateProfile(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a profile")

		var req CreateProfileRequest
		if err := request.DecodeJSON(w, r, &req); err != nil {
			response.BadRequest(w, err)
			return
		}
		req.UserID = strings.TrimSpace(req.UserID)
		req.FirstName = strings.TrimSpace(req.FirstName)
		req.LastName = strings.TrimSpace(req.LastName)

		if err := validate.Struct(req); err != nil {
			response.BadRequest(w, err)
			return
		}

		now := time.Now().UTC()
		st := types.Student{
			ID:             req.UserID,
			FirstName:      req.FirstName,
			LastName:       req.LastName,
			DisplayName:    req.DisplayName,
			AcademicLevel:  req.AcademicLevel,
			ProfilePicture: req.ProfilePicture,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if st.DisplayName == "" {
			st.DisplayName = st.FirstName + " " + st.LastName
		}

		if err := storage.CreateStudent(st); err != nil {
			response.StorageError(w, err)
			return
		}

		slog.Info("profile created", slog.String("user_id", st.ID))
		response.WriteJSON(w, http.StatusCreated, st)
	}
}

// GetEnrollments handles GET /users/{userId}/enrollments.
func GetEnrollments(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["userId"]
		slog.Info("listing enrollments for user", slog.String("user_id", id))

		all, err := store.GetEnrollments()
		if err != nil {
			response.StorageError(w, err)
			return
		}

		mine := query.FilterEnrollments(all, query.EnrollmentFilter{StudentID: id})
		out := make([]EnrollmentWithCourse, 0, len(mine))
		for _, e := range mine {
			item := EnrollmentWithCourse{Enrollment: e}
			c, err := store.GetCourseByID(e.CourseID)
			switch {
			case err == nil:
				item.Course = &c
			case !errors.Is(err, storage.ErrNotFound):
				response.StorageError(w, err)
				return
			}
			out = append(out, item)
		}

		response.WriteJSON(w, http.StatusOK, map[string]any{
			"enrollments": out,
			"total":       len(out),
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Search handles GET /users/search
//
// Query parameters (all optional): q (name or email substring),
// academic_level, limit, offset.
// ─────────────────────────────────────────────────────────────────────────────
func Search(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := r.URL.Query()
		filter := query.StudentFilter{
			Search:        strings.TrimSpace(v.Get("q")),
			AcademicLevel: types.AcademicLevel(strings.TrimSpace(v.Get("academic_level"))),
		}
		slog.Info("searching users", slog.String("q", filter.Search))

		if filter.AcademicLevel != "" && !filter.AcademicLevel.Valid() {
			response.BadRequest(w, errors.New("academic_level must be one of High School, University, Graduate, Professional"))
			return
		}

		p, err := query.ParsePagination(v.Get("limit"), v.Get("offset"), query.DefaultLimit)
		if err != nil {
			response.BadRequest(w, err)
			return
		}

		students, err := storage.GetStudents()
		if err != nil {
			response.StorageError(w, err)
			return
		}
		users, err := storage.GetUsers()
		if err != nil {
			response.StorageError(w, err)
			return
		}

		emails := make(map[string]string, len(users))
		for _, u := range users {
			emails[u.ID] = u.Email
		}

		page, meta := query.Paginate(query.FilterStudents(students, emails, filter), p)
		profiles := make([]Profile, 0, len(page))
		for _, st := range page {
			profiles = append(profiles, Profile{Student: st, Email: emails[st.ID]})
		}

		response.WriteJSON(w, http.StatusOK, SearchResponse{Users: profiles, Page: meta})
	}
}

// Stats handles GET /users/stats.
func Stats(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("computing user stats")

		users, err := storage.GetUsers()
		if err != nil {
			response.StorageError(w, err)
			return
		}
		students, err := storage.GetStudents()
		if err != nil {
			response.StorageError(w, err)
			return
		}
		enrollments, err := storage.GetEnrollments()
		if err != nil {
			response.StorageError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, map[string]any{
			"total_users":       len(users),
			"total_students":    len(students),
			"total_enrollments": len(enrollments),
			"students_by_level": query.LevelCounts(students),
		})
	}
}
