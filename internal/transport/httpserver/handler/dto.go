package handler

import (
	"time"

	appointmentdomain "garden-planner-go/internal/domain/appointment"
	typedomain "garden-planner-go/internal/domain/appointmenttype"
	languagedomain "garden-planner-go/internal/domain/language"
	tododomain "garden-planner-go/internal/domain/todo"
	userdomain "garden-planner-go/internal/domain/user"
	vehicledomain "garden-planner-go/internal/domain/vehicle"
)

type appointmentTypeResponse struct {
	GlobalID    string    `json:"globalId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	Version     int64     `json:"version"`
	CreatedAt   time.Time `json:"createdAt"`
}

type appointmentResponse struct {
	GlobalID          string    `json:"globalId"`
	UserID            string    `json:"userId"`
	AppointmentTypeID string    `json:"appointmentTypeId"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Date              time.Time `json:"date"`
	AllDay            bool      `json:"allDay"`
	IsApproved        bool      `json:"isApproved"`
	Version           int64     `json:"version"`
	CreatedAt         time.Time `json:"createdAt"`
}

type toDoResponse struct {
	GlobalID      string    `json:"globalId"`
	AppointmentID string    `json:"appointmentId"`
	Description   string    `json:"description"`
	Done          bool      `json:"done"`
	Version       int64     `json:"version"`
	CreatedAt     time.Time `json:"createdAt"`
}

type vehicleResponse struct {
	GlobalID     string    `json:"globalId"`
	Brand        string    `json:"brand"`
	Model        string    `json:"model"`
	LicensePlate string    `json:"licensePlate"`
	Version      int64     `json:"version"`
	CreatedAt    time.Time `json:"createdAt"`
}

type userResponse struct {
	GlobalID     string    `json:"globalId"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	UserName     string    `json:"userName"`
	Email        string    `json:"email"`
	LanguageCode *string   `json:"languageCode"`
	VehicleID    *string   `json:"vehicleId"`
	Roles        []string  `json:"roles"`
	Version      int64     `json:"version"`
	CreatedAt    time.Time `json:"createdAt"`
}

type languageResponse struct {
	Code             string `json:"code"`
	Name             string `json:"name"`
	IsSystemLanguage bool   `json:"isSystemLanguage"`
	IsActive         bool   `json:"isActive"`
}

type listResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func newListResponse[S any, T any](items []S, convert func(S) T) listResponse[T] {
	result := make([]T, 0, len(items))
	for _, item := range items {
		result = append(result, convert(item))
	}
	return listResponse[T]{Items: result, Total: len(result)}
}

func toAppointmentTypeResponse(item typedomain.AppointmentType) appointmentTypeResponse {
	return appointmentTypeResponse{
		GlobalID:    item.ID,
		Name:        item.Name,
		Description: item.Description,
		Color:       item.Color,
		Version:     item.Version,
		CreatedAt:   item.CreatedAt,
	}
}

func toAppointmentResponse(item appointmentdomain.Appointment) appointmentResponse {
	return appointmentResponse{
		GlobalID:          item.ID,
		UserID:            item.UserID,
		AppointmentTypeID: item.AppointmentTypeID,
		Title:             item.Title,
		Description:       item.Description,
		Date:              item.Date.UTC(),
		AllDay:            item.AllDay,
		IsApproved:        item.IsApproved,
		Version:           item.Version,
		CreatedAt:         item.CreatedAt,
	}
}

func toToDoResponse(item tododomain.ToDo) toDoResponse {
	return toDoResponse{
		GlobalID:      item.ID,
		AppointmentID: item.AppointmentID,
		Description:   item.Description,
		Done:          item.Done,
		Version:       item.Version,
		CreatedAt:     item.CreatedAt,
	}
}

func toVehicleResponse(item vehicledomain.Vehicle) vehicleResponse {
	return vehicleResponse{
		GlobalID:     item.ID,
		Brand:        item.Brand,
		Model:        item.Model,
		LicensePlate: item.LicensePlate,
		Version:      item.Version,
		CreatedAt:    item.CreatedAt,
	}
}

func toUserResponse(item userdomain.UserWithRoles) userResponse {
	roles := item.Roles
	if roles == nil {
		roles = []string{}
	}
	return userResponse{
		GlobalID:     item.User.ID,
		FirstName:    item.User.FirstName,
		LastName:     item.User.LastName,
		UserName:     item.User.UserName,
		Email:        item.User.Email,
		LanguageCode: item.User.LanguageCode,
		VehicleID:    item.User.VehicleID,
		Roles:        roles,
		Version:      item.User.Version,
		CreatedAt:    item.User.CreatedAt,
	}
}

func toLanguageResponse(item languagedomain.Language) languageResponse {
	return languageResponse{
		Code:             item.Code,
		Name:             item.Name,
		IsSystemLanguage: item.IsSystemLanguage,
		IsActive:         item.IsActive,
	}
}
