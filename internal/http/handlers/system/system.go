// Package system serves the endpoints that describe the API itself:
// health, the endpoint directory, the OpenAPI document and the fallback
// 404.
package system

import (
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/learnhub/learning-api/internal/utils/response"
)

// Endpoint describes one registered route.
type Endpoint struct {
	Method  string
	Path    string
	Summary string
	Tag     string
	// Auth marks routes documented as taking a bearer token.
	Auth bool
}

// Info identifies the running service.
type Info struct {
	Name        string
	Version     string
	Environment string
	Started     time.Time
}

// AvailableRoutes lists the top-level groups shown in 404 replies.
var AvailableRoutes = []string{"/auth", "/courses", "/users", "/enrollments", "/health", "/api-docs"}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Environment string    `json:"environment"`
	Uptime      float64   `json:"uptime"`
}

// Health handles GET /health. Uptime is reported in seconds.
func Health(info Info) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC()
		response.WriteJSON(w, http.StatusOK, HealthResponse{
			Status:      "OK",
			Timestamp:   now,
			Environment: info.Environment,
			Uptime:      now.Sub(info.Started).Seconds(),
		})
	}
}

// IndexResponse is the body of GET /.
type IndexResponse struct {
	Name          string              `json:"name"`
	Version       string              `json:"version"`
	Documentation string              `json:"documentation"`
	Endpoints     map[string][]string `json:"endpoints"`
}

// Index handles GET / with the route list grouped by tag.
func Index(info Info, endpoints []Endpoint) http.HandlerFunc {
	groups := make(map[string][]string)
	for _, e := range endpoints {
		groups[e.Tag] = append(groups[e.Tag], e.Method+" "+e.Path)
	}
	body := IndexResponse{
		Name:          info.Name,
		Version:       info.Version,
		Documentation: "/api-docs",
		Endpoints:     groups,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, body)
	}
}

// NotFoundResponse is the 404 body for unmatched routes.
type NotFoundResponse struct {
	response.Response
	AvailableRoutes []string `json:"available_routes"`
}

// NotFound handles every request no route matched.
func NotFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("route not found",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path))

		response.WriteJSON(w, http.StatusNotFound, NotFoundResponse{
			Response: response.Response{
				Status: response.StatusError,
				Error:  fmt.Sprintf("route %s %s not found", r.Method, r.URL.Path),
			},
			AvailableRoutes: AvailableRoutes,
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// OpenAPI
// ─────────────────────────────────────────────────────────────────────────────

type Document struct {
	OpenAPI    string                          `json:"openapi" yaml:"openapi"`
	Info       DocumentInfo                    `json:"info" yaml:"info"`
	Tags       []Tag                           `json:"tags" yaml:"tags"`
	Paths      map[string]map[string]Operation `json:"paths" yaml:"paths"`
	Components Components                      `json:"components" yaml:"components"`
}

type DocumentInfo struct {
	Title   string `json:"title" yaml:"title"`
	Version string `json:"version" yaml:"version"`
}

type Tag struct {
	Name string `json:"name" yaml:"name"`
}

type Operation struct {
	Summary    string                `json:"summary" yaml:"summary"`
	Tags       []string              `json:"tags" yaml:"tags"`
	Parameters []Parameter           `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Security   []map[string][]string `json:"security,omitempty" yaml:"security,omitempty"`
	Responses  map[string]Reply      `json:"responses" yaml:"responses"`
}

type Parameter struct {
	Name     string `json:"name" yaml:"name"`
	In       string `json:"in" yaml:"in"`
	Required bool   `json:"required" yaml:"required"`
	Schema   Schema `json:"schema" yaml:"schema"`
}

type Schema struct {
	Type string `json:"type" yaml:"type"`
}

type Reply struct {
	Description string `json:"description" yaml:"description"`
}

type Components struct {
	SecuritySchemes map[string]SecurityScheme `json:"securitySchemes" yaml:"securitySchemes"`
}

type SecurityScheme struct {
	Type         string `json:"type" yaml:"type"`
	Scheme       string `json:"scheme" yaml:"scheme"`
	BearerFormat string `json:"bearerFormat" yaml:"bearerFormat"`
}

var pathParam = regexp.MustCompile(`\{([^}/]+)\}`)

// NewDocument builds an OpenAPI 3 document from the route table.
func NewDocument(info Info, endpoints []Endpoint) Document {
	doc := Document{
		OpenAPI: "3.0.3",
		Info:    DocumentInfo{Title: info.Name, Version: info.Version},
		Paths:   make(map[string]map[string]Operation),
		Components: Components{SecuritySchemes: map[string]SecurityScheme{
			"bearerAuth": {Type: "http", Scheme: "bearer", BearerFormat: "JWT"},
		}},
	}

	seen := make(map[string]bool)
	for _, e := range endpoints {
		if !seen[e.Tag] {
			seen[e.Tag] = true
			doc.Tags = append(doc.Tags, Tag{Name: e.Tag})
		}

		op := Operation{
			Summary:   e.Summary,
			Tags:      []string{e.Tag},
			Responses: map[string]Reply{"200": {Description: "OK"}},
		}
		for _, m := range pathParam.FindAllStringSubmatch(e.Path, -1) {
			op.Parameters = append(op.Parameters, Parameter{
				Name: m[1], In: "path", Required: true, Schema: Schema{Type: "string"},
			})
		}
		if e.Auth {
			op.Security = []map[string][]string{{"bearerAuth": {}}}
		}

		if doc.Paths[e.Path] == nil {
			doc.Paths[e.Path] = make(map[string]Operation)
		}
		doc.Paths[e.Path][strings.ToLower(e.Method)] = op
	}
	sort.Slice(doc.Tags, func(i, j int) bool { return doc.Tags[i].Name < doc.Tags[j].Name })

	return doc
}

// Docs handles GET /api-docs.
func Docs(doc Document) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, doc)
	}
}

// DocsYAML handles GET /api-docs/openapi.yaml. The document is encoded
// once up front.
func DocsYAML(doc Document) http.HandlerFunc {
	body, err := yaml.Marshal(doc)

	return func(w http.ResponseWriter, r *http.Request) {
		if err != nil {
			slog.Error("error encoding openapi yaml", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.InternalError(err))
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusOK)
		w.Write(body)
	}
}
