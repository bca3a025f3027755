package httpx

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-inventory-api.git/internal/auth"
	"github.com/ariefcatur/go-inventory-api.git/internal/inventory"
)

type UserStore interface {
	CreateUser(ctx context.Context, u *inventory.User) error
	GetUser(ctx context.Context, id string) (*inventory.User, error)
	GetUserByEmail(ctx context.Context, email string) (*inventory.User, error)
}

type AuthHandler struct {
	Store       UserStore
	Tokens      *auth.Tokens
	Revocations auth.Revocations
}

type registerReq struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResp struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

// Register mounts the public routes; RegisterProtected the ones behind auth.
func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/auth/register", h.register)
	r.Post("/auth/login", h.login)
}

func (h *AuthHandler) RegisterProtected(r chi.Router) {
	r.Post("/auth/logout", h.logout)
	r.Get("/me", h.me)
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	u, err := h.Store.GetUser(ctx, UserID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "hash password")
		return
	}
	u := &inventory.User{Name: req.Name, Email: req.Email, PasswordHash: hash}
	if err := h.Store.CreateUser(ctx, u); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.Store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, inventory.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeDomainError(w, err)
		return
	}
	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, _, err := h.Tokens.Issue(u.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "issue token")
		return
	}
	writeJSON(w, http.StatusOK, tokenResp{Token: token, UserID: u.ID})
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	jti := TokenID(r.Context())
	if jti == "" {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	if err := h.Revocations.Revoke(r.Context(), jti); err != nil {
		writeError(w, http.StatusInternalServerError, "revoke token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
