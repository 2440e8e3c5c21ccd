package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/taskboard/internal/apperr"
	"github.com/hongminglow/taskboard/internal/http/respond"
	"github.com/hongminglow/taskboard/internal/middleware"
	"github.com/hongminglow/taskboard/internal/models/dto"
	"github.com/hongminglow/taskboard/internal/service"
)

// CookieOptions controls the token cookie.
type CookieOptions struct {
	Secure bool
	MaxAge time.Duration
}

// AuthHandler owns register/login/logout/me endpoints.
type AuthHandler struct {
	svc    *service.AuthService
	rw     *respond.Writer
	cookie CookieOptions
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(svc *service.AuthService, rw *respond.Writer, cookie CookieOptions) *AuthHandler {
	return &AuthHandler{svc: svc, rw: rw, cookie: cookie}
}

// Routes attaches the public auth routes. protected wraps routes that need a principal.
func (h *AuthHandler) Routes(r chi.Router, protected func(http.Handler) http.Handler) {
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
	r.Group(func(r chi.Router) {
		r.Use(protected)
		r.Post("/logout", h.handleLogout)
		r.Get("/me", h.handleMe)
	})
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.rw.Fail(w, r, err)
		return
	}
	req.Normalize()
	if errs := req.Validate(); len(errs) > 0 {
		h.rw.Fail(w, r, apperr.Validation(errs))
		return
	}

	out, err := h.svc.Register(r.Context(), req)
	if err != nil {
		h.rw.Fail(w, r, err)
		return
	}
	h.setToken(w, out.Token)
	h.rw.JSON(w, http.StatusCreated, "User registered successfully", out)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.rw.Fail(w, r, err)
		return
	}
	req.Normalize()
	if errs := req.Validate(); len(errs) > 0 {
		h.rw.Fail(w, r, apperr.Validation(errs))
		return
	}

	out, err := h.svc.Login(r.Context(), req)
	if err != nil {
		h.rw.Fail(w, r, err)
		return
	}
	h.setToken(w, out.Token)
	h.rw.JSON(w, http.StatusOK, "Login successful", out)
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.tokenCookie("", -1))
	h.rw.JSON(w, http.StatusOK, "Logout successful", nil)
}

func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		h.rw.Fail(w, r, err)
		return
	}
	user, err := h.svc.Me(r.Context(), p)
	if err != nil {
		h.rw.Fail(w, r, err)
		return
	}
	h.rw.JSON(w, http.StatusOK, "User profile retrieved", map[string]any{"user": user})
}

func (h *AuthHandler) setToken(w http.ResponseWriter, token string) {
	http.SetCookie(w, h.tokenCookie(token, int(h.cookie.MaxAge.Seconds())))
}

func (h *AuthHandler) tokenCookie(value string, maxAge int) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if h.cookie.Secure {
		sameSite = http.SameSiteNoneMode
	}
	c := &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: sameSite,
		MaxAge:   maxAge,
	}
	if maxAge < 0 {
		c.Expires = time.Unix(0, 0)
	}
	return c
}
