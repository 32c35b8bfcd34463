package httpapi

import (
	"net/http"
	"time"

	authapp "github.com/agromart/agromart/internal/auth/app"
	authdomain "github.com/agromart/agromart/internal/auth/domain"
	"github.com/go-chi/chi/v5"
)

type authHandlers struct {
	auth *authapp.Service
}

type userResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	MobileNo  string    `json:"mobileNo,omitempty"`
	Role      string    `json:"role"`
	Avatar    string    `json:"avatar,omitempty"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(u authdomain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		MobileNo:  u.MobileNo,
		Role:      u.Role,
		Avatar:    u.Avatar,
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
	}
}

type sessionResponse struct {
	User         userResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

func (h *authHandlers) signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
		Password string `json:"password"`
		MobileNo string `json:"mobileNo"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: err.Error()})
		return
	}

	user, err := h.auth.Register(r.Context(), authapp.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		MobileNo: req.MobileNo,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusCreated, "Account created successfully", toUserResponse(user))
}

func (h *authHandlers) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: err.Error()})
		return
	}

	session, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, sessionResponse{
		User:         toUserResponse(session.User),
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
	})
}

func (h *authHandlers) me(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	user, err := h.auth.Profile(r.Context(), claims.Subject)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, toUserResponse(user))
}

func (h *authHandlers) logout(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	if err := h.auth.Logout(r.Context(), claims.Subject); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Logged out", nil)
}

func (h *authHandlers) refresh(w http.ResponseWriter, r *http.Request) {
	session, err := h.auth.Refresh(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, sessionResponse{
		User:         toUserResponse(session.User),
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
	})
}
