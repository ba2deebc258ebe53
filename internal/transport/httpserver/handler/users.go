package handler

import (
	"net/http"

	userdomain "garden-planner-go/internal/domain/user"
	"github.com/go-chi/chi/v5"
)

type userRequest struct {
	GlobalID     string `json:"globalId"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	UserName     string `json:"userName"`
	Email        string `json:"email"`
	LanguageCode string `json:"languageCode"`
	Version      *int64 `json:"version"`
}

type rolesRequest struct {
	Roles []string `json:"roles"`
}

type rolesResponse struct {
	GlobalID string   `json:"globalId"`
	Roles    []string `json:"roles"`
}

type vehicleAssignmentRequest struct {
	VehicleID string `json:"vehicleId"`
}

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	items, err := h.Users.List(r.Context(), userdomain.ListFilter{Query: r.URL.Query().Get("q")})
	if err != nil {
		h.writeServiceError(w, r, "users.list", err)
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(items, toUserResponse))
}

func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, err := h.Users.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "users.get", err, "user_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(*item))
}

func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req userRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidRequest(w, "invalid json")
		return
	}
	if err := checkBodyID(id, req.GlobalID); err != nil {
		writeInvalidRequest(w, err.Error())
		return
	}

	item, err := h.Users.Update(r.Context(), id, userdomain.UpdateInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		UserName:     req.UserName,
		Email:        req.Email,
		LanguageCode: req.LanguageCode,
		Version:      req.Version,
	})
	if err != nil {
		h.writeServiceError(w, r, "users.update", err, "user_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(*item))
}

func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Users.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, "users.delete", err, "user_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) SetUserRoles(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	var req rolesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidRequest(w, "invalid json")
		return
	}

	roles, err := h.Users.SetRoles(r.Context(), p.Roles, id, req.Roles)
	if err != nil {
		h.writeServiceError(w, r, "users.set_roles", err, "user_id", id)
		return
	}
	h.logFor(r).Info("users.set_roles: roles replaced", "user_id", id, "roles", roles)
	writeJSON(w, http.StatusOK, rolesResponse{GlobalID: id, Roles: roles})
}

func (h *Handlers) AssignUserVehicle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req vehicleAssignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidRequest(w, "invalid json")
		return
	}

	item, err := h.Users.AssignVehicle(r.Context(), id, req.VehicleID)
	if err != nil {
		h.writeServiceError(w, r, "users.assign_vehicle", err, "user_id", id, "vehicle_id", req.VehicleID)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(*item))
}

func (h *Handlers) UnassignUserVehicle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, err := h.Users.UnassignVehicle(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "users.unassign_vehicle", err, "user_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(*item))
}
