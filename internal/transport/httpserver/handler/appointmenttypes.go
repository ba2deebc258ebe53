package handler

import (
	"net/http"

	typedomain "garden-planner-go/internal/domain/appointmenttype"
	"github.com/go-chi/chi/v5"
)

type appointmentTypeRequest struct {
	GlobalID    string `json:"globalId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Version     *int64 `json:"version"`
}

func (h *Handlers) ListAppointmentTypes(w http.ResponseWriter, r *http.Request) {
	items, err := h.AppointmentTypes.List(r.Context(), typedomain.ListFilter{Query: r.URL.Query().Get("q")})
	if err != nil {
		h.writeServiceError(w, r, "appointment_types.list", err)
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(items, toAppointmentTypeResponse))
}

func (h *Handlers) GetAppointmentType(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, err := h.AppointmentTypes.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "appointment_types.get", err, "appointment_type_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentTypeResponse(*item))
}

func (h *Handlers) CreateAppointmentType(w http.ResponseWriter, r *http.Request) {
	var req appointmentTypeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidRequest(w, "invalid json")
		return
	}

	item, err := h.AppointmentTypes.Create(r.Context(), typedomain.CreateInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		h.writeServiceError(w, r, "appointment_types.create", err)
		return
	}
	writeJSON(w, http.StatusCreated, toAppointmentTypeResponse(*item))
}

func (h *Handlers) UpdateAppointmentType(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req appointmentTypeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidRequest(w, "invalid json")
		return
	}
	if err := checkBodyID(id, req.GlobalID); err != nil {
		writeInvalidRequest(w, err.Error())
		return
	}

	item, err := h.AppointmentTypes.Update(r.Context(), id, typedomain.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Version:     req.Version,
	})
	if err != nil {
		h.writeServiceError(w, r, "appointment_types.update", err, "appointment_type_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentTypeResponse(*item))
}

func (h *Handlers) DeleteAppointmentType(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.AppointmentTypes.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, "appointment_types.delete", err, "appointment_type_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
