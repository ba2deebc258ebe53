package handler

import (
	"net/http"

	vehicledomain "garden-planner-go/internal/domain/vehicle"
	"github.com/go-chi/chi/v5"
)

type vehicleRequest struct {
	GlobalID     string `json:"globalId"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	LicensePlate string `json:"licensePlate"`
	Version      *int64 `json:"version"`
}

func (h *Handlers) ListVehicles(w http.ResponseWriter, r *http.Request) {
	items, err := h.Vehicles.List(r.Context(), vehicledomain.ListFilter{Query: r.URL.Query().Get("q")})
	if err != nil {
		h.writeServiceError(w, r, "vehicles.list", err)
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(items, toVehicleResponse))
}

func (h *Handlers) GetVehicle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, err := h.Vehicles.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "vehicles.get", err, "vehicle_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toVehicleResponse(*item))
}

func (h *Handlers) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req vehicleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidRequest(w, "invalid json")
		return
	}

	item, err := h.Vehicles.Create(r.Context(), vehicledomain.CreateInput{
		Brand:        req.Brand,
		Model:        req.Model,
		LicensePlate: req.LicensePlate,
	})
	if err != nil {
		h.writeServiceError(w, r, "vehicles.create", err, "license_plate", req.LicensePlate)
		return
	}
	writeJSON(w, http.StatusCreated, toVehicleResponse(*item))
}

func (h *Handlers) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req vehicleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidRequest(w, "invalid json")
		return
	}
	if err := checkBodyID(id, req.GlobalID); err != nil {
		writeInvalidRequest(w, err.Error())
		return
	}

	item, err := h.Vehicles.Update(r.Context(), id, vehicledomain.UpdateInput{
		Brand:        req.Brand,
		Model:        req.Model,
		LicensePlate: req.LicensePlate,
		Version:      req.Version,
	})
	if err != nil {
		h.writeServiceError(w, r, "vehicles.update", err, "vehicle_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toVehicleResponse(*item))
}

func (h *Handlers) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Vehicles.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, "vehicles.delete", err, "vehicle_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
