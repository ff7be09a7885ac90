package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/xid"

	"github.com/DhruvGajera9022/Project-Management-App/internal/apperror"
	"github.com/DhruvGajera9022/Project-Management-App/internal/auth"
	"github.com/DhruvGajera9022/Project-Management-App/internal/service"
)

// genericCredentialsMessage is returned for every login failure — no
// account, missing user, or wrong password. The taxonomy kind still
// drives the status code, but the body never reveals whether an email is
// registered.
const genericCredentialsMessage = "Invalid email or password"

const sessionTTL = 24 * time.Hour

// AuthHandler serves registration, login, logout, the current-user
// endpoint, and the OAuth redirect/callback pair for each configured
// provider.
type AuthHandler struct {
	svc       *service.AuthService
	tokens    *auth.TokenService
	providers map[string]*auth.OAuthProvider // keyed by URL segment: "google", "github", "facebook"
	logger    *slog.Logger
}

func NewAuthHandler(
	svc *service.AuthService,
	tokens *auth.TokenService,
	providers map[string]*auth.OAuthProvider,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		svc:       svc,
		tokens:    tokens,
		providers: providers,
		logger:    logger,
	}
}

// HandleRegister creates an account from email/password credentials.
//
// HTTP: POST /api/auth/register
// Body: {"email": "...", "name": "...", "password": "..."}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.svc.RegisterWithPassword(r.Context(), body.Email, body.Name, body.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message":     "User registered successfully",
		"userId":      result.UserID,
		"workspaceId": result.WorkspaceID,
	})
}

// HandleLogin verifies credentials and issues the session cookie.
//
// HTTP: POST /api/auth/login
// Body: {"email": "...", "password": "..."}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.svc.VerifyCredentials(r.Context(), body.Email, body.Password)
	if err != nil {
		// Collapse all credential failures into one response.
		if errors.Is(err, apperror.ErrNotFound) || errors.Is(err, apperror.ErrUnauthorized) {
			writeJSON(w, http.StatusUnauthorized, ErrorResponse{
				Error:   "unauthorized",
				Message: genericCredentialsMessage,
			})
			return
		}
		writeError(w, err)
		return
	}

	if err := h.setSessionCookie(w, user.ID); err != nil {
		h.logger.Error("login: token generation failed", slog.String("error", err.Error()))
		writeError(w, apperror.Internal(err, "could not establish session"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Logged in successfully",
		"user":    user,
	})
}

// HandleLogout clears the session cookie.
//
// HTTP: POST /api/auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// HandleMe returns the authenticated user's profile.
//
// HTTP: GET /api/user/current (behind RequireAuth)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	user, err := h.svc.GetCurrentUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

// HandleOAuthLogin redirects the browser to the provider's authorization
// page, storing a random state in a short-lived cookie for the CSRF check
// on callback.
//
// HTTP: GET /auth/{provider}/login
func (h *AuthHandler) HandleOAuthLogin(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.providers[r.PathValue("provider")]
	if !ok {
		writeError(w, apperror.NotFound("unknown identity provider"))
		return
	}

	state := xid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, provider.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleOAuthCallback completes the OAuth flow: verifies the state,
// exchanges the code for a profile, logs the user in (bootstrapping on
// first contact), and issues the session cookie.
//
// HTTP: GET /auth/{provider}/callback?code=xxx&state=yyy
func (h *AuthHandler) HandleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.providers[r.PathValue("provider")]
	if !ok {
		writeError(w, apperror.NotFound("unknown identity provider"))
		return
	}

	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("oauth callback: state mismatch", slog.String("provider", string(provider.Name())))
		writeError(w, apperror.Unauthorized("invalid OAuth state"))
		return
	}

	// The state is single-use.
	http.SetCookie(w, &http.Cookie{Name: "oauth_state", Value: "", Path: "/", MaxAge: -1})

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("oauth callback: user denied authorization", slog.String("error", errParam))
		http.Redirect(w, r, "/?auth=denied", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, apperror.ValidationFailed("code", "missing OAuth code"))
		return
	}

	profile, err := provider.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("oauth callback: exchange failed",
			slog.String("provider", string(provider.Name())),
			slog.String("error", err.Error()),
		)
		writeError(w, apperror.Internal(err, "authentication failed"))
		return
	}

	user, err := h.svc.LoginOrRegisterWithProvider(
		r.Context(), provider.Name(), profile.ID, profile.Name, profile.Email, profile.Picture,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.setSessionCookie(w, user.ID); err != nil {
		h.logger.Error("oauth callback: token generation failed", slog.String("error", err.Error()))
		writeError(w, apperror.Internal(err, "could not establish session"))
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, userID string) error {
	token, err := h.tokens.Generate(userID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
