// Package router is the HTTP composition root: it binds every handler to
// its path on a gorilla/mux router and wraps the result in middleware.
package router

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/learnhub/learning-api/internal/auth"
	"github.com/learnhub/learning-api/internal/config"
	"github.com/learnhub/learning-api/internal/http/handlers/account"
	"github.com/learnhub/learning-api/internal/http/handlers/course"
	"github.com/learnhub/learning-api/internal/http/handlers/enrollment"
	"github.com/learnhub/learning-api/internal/http/handlers/system"
	"github.com/learnhub/learning-api/internal/http/handlers/user"
	"github.com/learnhub/learning-api/internal/http/middleware"
	"github.com/learnhub/learning-api/internal/storage"
)

const (
	Name    = "Learning Platform API"
	Version = "1.0.0"
)

// Deps is everything the handlers need.
type Deps struct {
	Config  *config.Config
	Storage storage.Storage
	Tokens  *auth.Tokens
	Logger  *slog.Logger
	Started time.Time
}

type route struct {
	system.Endpoint
	handler http.HandlerFunc
}

func get(path, summary, tag string, h http.HandlerFunc) route {
	return route{system.Endpoint{Method: http.MethodGet, Path: path, Summary: summary, Tag: tag}, h}
}

func post(path, summary, tag string, h http.HandlerFunc) route {
	return route{system.Endpoint{Method: http.MethodPost, Path: path, Summary: summary, Tag: tag}, h}
}

func put(path, summary, tag string, h http.HandlerFunc) route {
	return route{system.Endpoint{Method: http.MethodPut, Path: path, Summary: summary, Tag: tag}, h}
}

func del(path, summary, tag string, h http.HandlerFunc) route {
	return route{system.Endpoint{Method: http.MethodDelete, Path: path, Summary: summary, Tag: tag}, h}
}

// protected reports whether path belongs to a group that RequireAuth
// guards.
func protected(path string) bool {
	return strings.HasPrefix(path, "/users") || strings.HasPrefix(path, "/enrollments")
}

// apiRoutes is the route table. gorilla/mux matches in registration
// order, so literal segments come before {id} segments under the same
// prefix.
func apiRoutes(s storage.Storage, tokens *auth.Tokens) []route {
	routes := []route{
		post("/auth/signup", "Create an account", "Auth", account.SignUp(s, tokens)),
		post("/auth/signin", "Sign in with email and password", "Auth", account.SignIn(s, tokens)),
		post("/auth/signout", "Sign out", "Auth", account.SignOut()),
		post("/auth/forgot-password", "Request a password reset email", "Auth", account.ForgotPassword()),
		post("/auth/reset-password", "Reset a password", "Auth", account.ResetPassword()),
		post("/auth/verify-email", "Verify an email address", "Auth", account.VerifyEmail()),
		get("/auth/me", "Current user", "Auth", account.Me(s)),

		get("/courses", "List courses with filters, sort and pagination", "Courses", course.GetList(s)),
		get("/courses/featured", "Featured courses", "Courses", course.GetFeatured(s)),
		get("/courses/categories", "Categories with course counts", "Courses", course.GetCategories(s)),
		get("/courses/category/{category}", "Courses in a category", "Courses", course.GetByCategory(s)),
		get("/courses/search", "Search courses", "Courses", course.Search(s)),
		get("/courses/{id}", "Get a course", "Courses", course.GetByID(s)),
		get("/courses/{id}/similar", "Courses similar to a course", "Courses", course.GetSimilar(s)),

		get("/users/profile/{userId}", "Get a student profile", "Users", user.GetProfile(s)),
		put("/users/profile/{userId}", "Partially update a student profile", "Users", user.UpdateProfile(s)),
		post("/users/create-profile", "Create a student profile", "Users", user.CreateProfile(s)),
		get("/users/search", "Search student profiles", "Users", user.Search(s)),
		get("/users/stats", "User and enrollment totals", "Users", user.Stats(s)),
		get("/users/{userId}/enrollments", "Enrollments of a user", "Users", user.GetEnrollments(s)),

		post("/enrollments", "Enroll a student in a course", "Enrollments", enrollment.New(s)),
		get("/enrollments", "List enrollments", "Enrollments", enrollment.GetList(s)),
		get("/enrollments/status", "Enrollment status of a student and course", "Enrollments", enrollment.Status(s)),
		del("/enrollments/student/{studentId}/course/{courseId}", "Unenroll a student from a course", "Enrollments", enrollment.Unenroll(s)),
		get("/enrollments/{id}", "Get an enrollment", "Enrollments", enrollment.GetByID(s)),
		del("/enrollments/{id}", "Delete an enrollment", "Enrollments", enrollment.Delete(s)),
	}

	for i := range routes {
		routes[i].Auth = protected(routes[i].Path) || routes[i].Path == "/auth/me"
	}
	return routes
}

// New builds the full handler:
//
//	Recoverer → RequestLogger → CORS → Bearer → router
func New(d Deps) http.Handler {
	info := system.Info{
		Name:        Name,
		Version:     Version,
		Environment: d.Config.Env,
		Started:     d.Started,
	}

	routes := apiRoutes(d.Storage, d.Tokens)

	sysEndpoints := []system.Endpoint{
		{Method: http.MethodGet, Path: "/health", Summary: "Health check", Tag: "System"},
		{Method: http.MethodGet, Path: "/", Summary: "Endpoint directory", Tag: "System"},
		{Method: http.MethodGet, Path: "/api-docs", Summary: "OpenAPI document (JSON)", Tag: "System"},
		{Method: http.MethodGet, Path: "/api-docs/openapi.yaml", Summary: "OpenAPI document (YAML)", Tag: "System"},
	}
	endpoints := make([]system.Endpoint, 0, len(routes)+len(sysEndpoints))
	for _, rt := range routes {
		endpoints = append(endpoints, rt.Endpoint)
	}
	endpoints = append(endpoints, sysEndpoints...)

	doc := system.NewDocument(info, endpoints)
	routes = append(routes,
		route{sysEndpoints[0], system.Health(info)},
		route{sysEndpoints[1], system.Index(info, endpoints)},
		route{sysEndpoints[2], system.Docs(doc)},
		route{sysEndpoints[3], system.DocsYAML(doc)},
	)

	r := mux.NewRouter()
	r.NotFoundHandler = system.NotFound()

	guarded := r.NewRoute().Subrouter()
	guarded.Use(middleware.RequireAuth(d.Config.Auth.Enforce))

	for _, rt := range routes {
		target := r
		if protected(rt.Path) {
			target = guarded
		}
		target.HandleFunc(rt.Path, rt.handler).Methods(rt.Method)
	}

	var h http.Handler = r
	h = middleware.Bearer(d.Tokens)(h)
	h = middleware.CORS(d.Config.FrontendURL)(h)
	h = middleware.RequestLogger(d.Logger)(h)
	h = middleware.Recoverer(d.Logger)(h)
	return h
}
