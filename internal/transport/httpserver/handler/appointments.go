package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	appointmentdomain "garden-planner-go/internal/domain/appointment"
	"github.com/go-chi/chi/v5"
)

type appointmentRequest struct {
	GlobalID          string    `json:"globalId"`
	UserID            string    `json:"userId"`
	AppointmentTypeID string    `json:"appointmentTypeId"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Date              time.Time `json:"date"`
	AllDay            bool      `json:"allDay"`
	Version           *int64    `json:"version"`
}

type approveRequest struct {
	Approved *bool `json:"approved"`
}

func (h *Handlers) ListAppointments(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	from, err := parseTimeParam(query.Get("from"), false)
	if err != nil {
		writeInvalidRequest(w, "invalid from")
		return
	}
	to, err := parseTimeParam(query.Get("to"), true)
	if err != nil {
		writeInvalidRequest(w, "invalid to")
		return
	}

	items, err := h.Appointments.List(r.Context(), scopeOf(p), appointmentdomain.ListFilter{
		Query: query.Get("q"),
		From:  from,
		To:    to,
	})
	if err != nil {
		h.writeServiceError(w, r, "appointments.list", err, "user_id", p.UserID)
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(items, toAppointmentResponse))
}

func (h *Handlers) GetAppointment(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	item, err := h.Appointments.Get(r.Context(), scopeOf(p), id)
	if err != nil {
		h.writeServiceError(w, r, "appointments.get", err, "appointment_id", id, "user_id", p.UserID)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentResponse(*item))
}

func (h *Handlers) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req appointmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidRequest(w, "invalid json")
		return
	}

	item, err := h.Appointments.Create(r.Context(), scopeOf(p), appointmentdomain.CreateInput{
		AppointmentTypeID: req.AppointmentTypeID,
		Title:             req.Title,
		Description:       req.Description,
		Date:              req.Date,
		AllDay:            req.AllDay,
		UserID:            req.UserID,
	})
	if err != nil {
		h.writeServiceError(w, r, "appointments.create", err, "user_id", p.UserID)
		return
	}
	writeJSON(w, http.StatusCreated, toAppointmentResponse(*item))
}

func (h *Handlers) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	var req appointmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidRequest(w, "invalid json")
		return
	}
	if err := checkBodyID(id, req.GlobalID); err != nil {
		writeInvalidRequest(w, err.Error())
		return
	}

	item, err := h.Appointments.Update(r.Context(), scopeOf(p), id, appointmentdomain.UpdateInput{
		AppointmentTypeID: req.AppointmentTypeID,
		Title:             req.Title,
		Description:       req.Description,
		Date:              req.Date,
		AllDay:            req.AllDay,
		Version:           req.Version,
	})
	if err != nil {
		h.writeServiceError(w, r, "appointments.update", err, "appointment_id", id, "user_id", p.UserID)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentResponse(*item))
}

// ApproveAppointment approves by default; {"approved":false} withdraws it.
func (h *Handlers) ApproveAppointment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req approveRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeInvalidRequest(w, "invalid json")
		return
	}
	approved := true
	if req.Approved != nil {
		approved = *req.Approved
	}

	item, err := h.Appointments.Approve(r.Context(), id, approved)
	if err != nil {
		h.writeServiceError(w, r, "appointments.approve", err, "appointment_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentResponse(*item))
}

func (h *Handlers) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.Appointments.Delete(r.Context(), scopeOf(p), id); err != nil {
		h.writeServiceError(w, r, "appointments.delete", err, "appointment_id", id, "user_id", p.UserID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
