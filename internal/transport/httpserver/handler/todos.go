package handler

import (
	"net/http"

	tododomain "garden-planner-go/internal/domain/todo"
	"github.com/go-chi/chi/v5"
)

type toDoRequest struct {
	GlobalID    string `json:"globalId"`
	Description string `json:"description"`
	Done        bool   `json:"done"`
	Version     *int64 `json:"version"`
}

func (h *Handlers) ListToDos(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	appointmentID := chi.URLParam(r, "appointmentId")
	query := r.URL.Query()
	done, err := parseBoolParam(query.Get("done"))
	if err != nil {
		writeInvalidRequest(w, "invalid done")
		return
	}

	items, err := h.ToDos.List(r.Context(), scopeOf(p), appointmentID, tododomain.ListFilter{
		Query: query.Get("q"),
		Done:  done,
	})
	if err != nil {
		h.writeServiceError(w, r, "todos.list", err, "appointment_id", appointmentID, "user_id", p.UserID)
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(items, toToDoResponse))
}

func (h *Handlers) GetToDo(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	appointmentID, id := chi.URLParam(r, "appointmentId"), chi.URLParam(r, "id")
	item, err := h.ToDos.Get(r.Context(), scopeOf(p), appointmentID, id)
	if err != nil {
		h.writeServiceError(w, r, "todos.get", err, "appointment_id", appointmentID, "todo_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toToDoResponse(*item))
}

func (h *Handlers) CreateToDo(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	appointmentID := chi.URLParam(r, "appointmentId")
	var req toDoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidRequest(w, "invalid json")
		return
	}

	item, err := h.ToDos.Create(r.Context(), scopeOf(p), appointmentID, tododomain.CreateInput{
		Description: req.Description,
		Done:        req.Done,
	})
	if err != nil {
		h.writeServiceError(w, r, "todos.create", err, "appointment_id", appointmentID, "user_id", p.UserID)
		return
	}
	writeJSON(w, http.StatusCreated, toToDoResponse(*item))
}

func (h *Handlers) UpdateToDo(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	appointmentID, id := chi.URLParam(r, "appointmentId"), chi.URLParam(r, "id")
	var req toDoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidRequest(w, "invalid json")
		return
	}
	if err := checkBodyID(id, req.GlobalID); err != nil {
		writeInvalidRequest(w, err.Error())
		return
	}

	item, err := h.ToDos.Update(r.Context(), scopeOf(p), appointmentID, id, tododomain.UpdateInput{
		Description: req.Description,
		Done:        req.Done,
		Version:     req.Version,
	})
	if err != nil {
		h.writeServiceError(w, r, "todos.update", err, "appointment_id", appointmentID, "todo_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toToDoResponse(*item))
}

func (h *Handlers) ToggleToDo(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	appointmentID, id := chi.URLParam(r, "appointmentId"), chi.URLParam(r, "id")
	item, err := h.ToDos.Toggle(r.Context(), scopeOf(p), appointmentID, id)
	if err != nil {
		h.writeServiceError(w, r, "todos.toggle", err, "appointment_id", appointmentID, "todo_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toToDoResponse(*item))
}

func (h *Handlers) DeleteToDo(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	appointmentID, id := chi.URLParam(r, "appointmentId"), chi.URLParam(r, "id")
	if err := h.ToDos.Delete(r.Context(), scopeOf(p), appointmentID, id); err != nil {
		h.writeServiceError(w, r, "todos.delete", err, "appointment_id", appointmentID, "todo_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
