package authhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"staffhub/internal/domain/audit"
	"staffhub/internal/domain/auth"
	"staffhub/internal/platform/config"
	cryptoutil "staffhub/internal/platform/crypto"
	"staffhub/internal/requestctx"
	"staffhub/internal/transport/http/api"
	"staffhub/internal/transport/http/middleware"
	"staffhub/internal/transport/http/shared"
)

type Handler struct {
	Store  *auth.Store
	Audit  *audit.Service
	Crypto *cryptoutil.Sealer
	Config config.Config
}

func NewHandler(store *auth.Store, auditSvc *audit.Service, crypto *cryptoutil.Sealer, cfg config.Config) *Handler {
	return &Handler{Store: store, Audit: auditSvc, Crypto: crypto, Config: cfg}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Get("/user", h.handleCurrentUser)
	r.Put("/user", h.handleUpdateProfile)
	r.Post("/mfa/setup", h.handleMFASetup)
	r.Post("/mfa/enable", h.handleMFAEnable)
	r.Post("/mfa/disable", h.handleMFADisable)
}

// RegisterUserRoutes mounts the company user administration surface. It is
// separate from RegisterRoutes so these endpoints skip the credential
// throttle applied to the login and register routes.
func (h *Handler) RegisterUserRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.With(middleware.RequireRole(auth.RoleHR)).Get("/", h.handleListUsers)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Post("/", h.handleCreateUser)
	})
}

type registerRequest struct {
	CompanyName string `json:"companyName"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	MFACode  string `json:"mfaCode"`
}

type profileRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
}

type mfaCodeRequest struct {
	Code string `json:"code"`
}

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// handleRegister provisions a company and its first admin in one step. There
// is no invite flow, so the first user of every tenant is its admin.
func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if !h.Config.AllowSelfSignup {
		api.Fail(w, http.StatusForbidden, "signup_disabled", "self signup is disabled", requestctx.GetRequestID(r.Context()))
		return
	}

	var payload registerRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("companyName", payload.CompanyName, "company name is required")
	v.Required("fullName", payload.FullName, "full name is required")
	if len(strings.TrimSpace(payload.Username)) < 3 {
		v.Add("username", "must be at least 3 characters")
	}
	if len(payload.Password) < 6 {
		v.Add("password", "must be at least 6 characters")
	}
	if _, err := mail.ParseAddress(payload.Email); err != nil {
		v.Add("email", "must be a valid email address")
	}
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "hash_error", "failed to process password", requestctx.GetRequestID(r.Context()))
		return
	}

	user, err := h.Store.RegisterCompany(r.Context(),
		strings.TrimSpace(payload.CompanyName),
		strings.TrimSpace(payload.Username),
		hash,
		strings.TrimSpace(payload.FullName),
		strings.TrimSpace(payload.Email),
	)
	if errors.Is(err, auth.ErrUsernameTaken) {
		api.Fail(w, http.StatusBadRequest, "conflict", "username already taken", requestctx.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "register_failed", "failed to register", requestctx.GetRequestID(r.Context()))
		return
	}

	h.recordAudit(r, user.CompanyID, user.ID, "auth.register", "user", user.ID, "registered company "+payload.CompanyName)
	h.issueSession(w, r, user.ID, user.CompanyID, user.Role, user)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	creds, err := h.Store.FindCredentialsByUsername(r.Context(), strings.TrimSpace(payload.Username))
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestctx.GetRequestID(r.Context()))
		return
	}
	if err := auth.CheckPassword(creds.PasswordHash, payload.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestctx.GetRequestID(r.Context()))
		return
	}

	if creds.MFAEnabled {
		if payload.MFACode == "" {
			api.Fail(w, http.StatusUnauthorized, "mfa_required", "mfa code required", requestctx.GetRequestID(r.Context()))
			return
		}
		secret := ""
		if h.Crypto != nil && h.Crypto.Enabled() {
			decoded, err := h.Crypto.Open(creds.MFASecretEnc)
			if err != nil {
				api.Fail(w, http.StatusUnauthorized, "mfa_invalid", "invalid mfa configuration", requestctx.GetRequestID(r.Context()))
				return
			}
			secret = decoded
		} else {
			secret = string(creds.MFASecretEnc)
		}
		if secret == "" || !totp.Validate(payload.MFACode, secret) {
			api.Fail(w, http.StatusUnauthorized, "mfa_invalid", "invalid mfa code", requestctx.GetRequestID(r.Context()))
			return
		}
	}

	user, err := h.Store.GetUser(r.Context(), creds.ID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "login_failed", "failed to load user", requestctx.GetRequestID(r.Context()))
		return
	}

	if err := h.Store.UpdateLastLogin(r.Context(), creds.ID); err != nil {
		slog.Warn("update last_login failed", "userId", creds.ID, "err", err)
	}

	h.recordAudit(r, creds.CompanyID, creds.ID, "auth.login", "user", creds.ID, "signed in")
	h.issueSession(w, r, creds.ID, creds.CompanyID, creds.Role, user)
}

func (h *Handler) issueSession(w http.ResponseWriter, r *http.Request, userID, companyID, role string, user auth.User) {
	sessionID, err := auth.NewSessionID()
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", requestctx.GetRequestID(r.Context()))
		return
	}
	expires := time.Now().Add(h.Config.SessionTTL)
	if err := h.Store.CreateSession(r.Context(), userID, auth.HashToken(sessionID), expires); err != nil {
		api.Fail(w, http.StatusInternalServerError, "session_error", "failed to start session", requestctx.GetRequestID(r.Context()))
		return
	}

	token, err := auth.GenerateToken(h.Config.JWTSecret, auth.Claims{
		UserID:    userID,
		CompanyID: companyID,
		Role:      role,
		SessionID: sessionID,
	}, h.Config.SessionTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", requestctx.GetRequestID(r.Context()))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.Config.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.Config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	api.Success(w, map[string]any{"token": token, "user": user}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if user, ok := middleware.GetUser(r.Context()); ok && user.SessionID != "" {
		if err := h.Store.RevokeSession(r.Context(), user.UserID, auth.HashToken(user.SessionID)); err != nil {
			slog.Warn("logout session revoke failed", "userId", user.UserID, "err", err)
		} else {
			h.recordAudit(r, user.CompanyID, user.UserID, "auth.logout", "user", user.UserID, "signed out")
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.Config.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	api.Success(w, map[string]string{"status": "logged_out"}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestctx.GetRequestID(r.Context()))
		return
	}
	record, err := h.Store.GetUser(r.Context(), user.UserID)
	if errors.Is(err, auth.ErrNotFound) {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "user no longer exists", requestctx.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "user_failed", "failed to load user", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, record, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestctx.GetRequestID(r.Context()))
		return
	}

	var payload profileRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("fullName", payload.FullName, "full name is required")
	v.Required("email", payload.Email, "email is required")
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	if err := h.Store.UpdateProfile(r.Context(), user.UserID, strings.TrimSpace(payload.FullName), strings.TrimSpace(payload.Email), payload.Avatar); err != nil {
		api.Fail(w, http.StatusInternalServerError, "profile_update_failed", "failed to update profile", requestctx.GetRequestID(r.Context()))
		return
	}

	record, err := h.Store.GetUser(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "user_failed", "failed to load user", requestctx.GetRequestID(r.Context()))
		return
	}

	h.recordAudit(r, user.CompanyID, user.UserID, "auth.profile.update", "user", user.UserID, "updated profile")
	api.Success(w, record, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleMFASetup(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestctx.GetRequestID(r.Context()))
		return
	}
	if h.Crypto == nil || !h.Crypto.Enabled() {
		api.Fail(w, http.StatusBadRequest, "mfa_unavailable", "mfa requires encryption key", requestctx.GetRequestID(r.Context()))
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "StaffHub",
		AccountName: user.UserID,
		Period:      30,
		Digits:      otp.DigitsSix,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "mfa_setup_failed", "failed to generate mfa secret", requestctx.GetRequestID(r.Context()))
		return
	}
	secret := key.Secret()
	encrypted, err := h.Crypto.Seal(secret)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "mfa_setup_failed", "failed to store mfa secret", requestctx.GetRequestID(r.Context()))
		return
	}
	if err := h.Store.UpdateMFASecret(r.Context(), user.UserID, encrypted); err != nil {
		api.Fail(w, http.StatusInternalServerError, "mfa_setup_failed", "failed to store mfa secret", requestctx.GetRequestID(r.Context()))
		return
	}

	api.Success(w, map[string]string{"secret": secret, "otpauthUrl": key.URL()}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleMFAEnable(w http.ResponseWriter, r *http.Request) {
	h.toggleMFA(w, r, true)
}

func (h *Handler) handleMFADisable(w http.ResponseWriter, r *http.Request) {
	h.toggleMFA(w, r, false)
}

func (h *Handler) toggleMFA(w http.ResponseWriter, r *http.Request, enable bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestctx.GetRequestID(r.Context()))
		return
	}
	if h.Crypto == nil || !h.Crypto.Enabled() {
		api.Fail(w, http.StatusBadRequest, "mfa_unavailable", "mfa requires encryption key", requestctx.GetRequestID(r.Context()))
		return
	}

	var payload mfaCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	secretEnc, err := h.Store.GetMFASecret(r.Context(), user.UserID)
	if err != nil || len(secretEnc) == 0 {
		api.Fail(w, http.StatusBadRequest, "mfa_missing", "mfa setup required", requestctx.GetRequestID(r.Context()))
		return
	}
	secret, err := h.Crypto.Open(secretEnc)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "mfa_invalid", "invalid mfa secret", requestctx.GetRequestID(r.Context()))
		return
	}
	if !totp.Validate(payload.Code, secret) {
		api.Fail(w, http.StatusBadRequest, "mfa_invalid", "invalid mfa code", requestctx.GetRequestID(r.Context()))
		return
	}

	if err := h.Store.SetMFAEnabled(r.Context(), user.UserID, enable); err != nil {
		api.Fail(w, http.StatusInternalServerError, "mfa_update_failed", "failed to update mfa", requestctx.GetRequestID(r.Context()))
		return
	}
	status := "disabled"
	if enable {
		status = "enabled"
	}
	api.Success(w, map[string]string{"status": status}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	users, err := h.Store.ListUsers(r.Context(), user.CompanyID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list users", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, users, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	role := auth.NormalizeRole(payload.Role)
	v := shared.NewValidator()
	v.Required("fullName", payload.FullName, "full name is required")
	if len(strings.TrimSpace(payload.Username)) < 3 {
		v.Add("username", "must be at least 3 characters")
	}
	if len(payload.Password) < 6 {
		v.Add("password", "must be at least 6 characters")
	}
	if _, err := mail.ParseAddress(payload.Email); err != nil {
		v.Add("email", "must be a valid email address")
	}
	if !auth.KnownRole(role) {
		v.Add("role", "must be one of user, manager, hr, admin")
	}
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "hash_error", "failed to process password", requestctx.GetRequestID(r.Context()))
		return
	}

	created, err := h.Store.CreateUser(r.Context(), user.CompanyID,
		strings.TrimSpace(payload.Username), hash,
		strings.TrimSpace(payload.FullName), strings.TrimSpace(payload.Email), role)
	if errors.Is(err, auth.ErrUsernameTaken) {
		api.Fail(w, http.StatusBadRequest, "conflict", "username already taken", requestctx.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "failed to create user", requestctx.GetRequestID(r.Context()))
		return
	}

	h.recordAudit(r, user.CompanyID, user.UserID, "user.create", "user", created.ID, "created user "+created.Username)
	api.Created(w, created, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) recordAudit(r *http.Request, companyID, userID, action, entityType, entityID, details string) {
	if h.Audit == nil {
		return
	}
	err := h.Audit.Record(r.Context(), companyID, userID, action, entityType, entityID, details,
		requestctx.GetRequestID(r.Context()), shared.ClientIP(r))
	if err != nil {
		slog.Warn("audit "+action+" failed", "err", err)
	}
}
