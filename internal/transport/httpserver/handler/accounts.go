package handler

import (
	"net/http"
	"time"

	"garden-planner-go/internal/auth"
	userdomain "garden-planner-go/internal/domain/user"
)

type logInRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

type logInResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      userResponse `json:"user"`
}

type isAuthorizedResponse struct {
	Authorized bool     `json:"authorized"`
	UserID     string   `json:"userId"`
	Email      string   `json:"email"`
	Roles      []string `json:"roles"`
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req userdomain.RegisterInput
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidRequest(w, "invalid json")
		return
	}

	created, err := h.Users.Register(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, "accounts.register", err, "email", req.Email)
		return
	}

	h.logFor(r).Info("accounts.register: user registered", "user_id", created.User.ID)
	writeJSON(w, http.StatusCreated, toUserResponse(*created))
}

func (h *Handlers) LogIn(w http.ResponseWriter, r *http.Request) {
	var req logInRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidRequest(w, "invalid json")
		return
	}

	account, err := h.Users.Authenticate(r.Context(), req.Email, req.Password)
	h.recordLogin(err == nil)
	if err != nil {
		h.writeServiceError(w, r, "accounts.log_in", err, "email", req.Email)
		return
	}

	token, expiresAt, err := h.tokens.Issue(auth.Principal{
		UserID: account.User.ID,
		Email:  account.User.Email,
		Roles:  auth.RoleSetFromStrings(account.Roles),
	}, req.RememberMe)
	if err != nil {
		h.logFor(r).InternalError("accounts.log_in: issue token failed", err, "user_id", account.User.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, logInResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      toUserResponse(*account),
	})
}

func (h *Handlers) IsAuthorized(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, isAuthorizedResponse{
		Authorized: true,
		UserID:     p.UserID,
		Email:      p.Email,
		Roles:      p.Roles.Strings(),
	})
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	account, err := h.Users.Get(r.Context(), p.UserID)
	if err != nil {
		h.writeServiceError(w, r, "accounts.me", err, "user_id", p.UserID)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(*account))
}

func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req userdomain.ChangePasswordInput
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidRequest(w, "invalid json")
		return
	}

	if err := h.Users.ChangePassword(r.Context(), p.UserID, req); err != nil {
		h.writeServiceError(w, r, "accounts.change_password", err, "user_id", p.UserID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) recordLogin(success bool) {
	if h.logins != nil {
		h.logins.RecordLogin(success)
	}
}
