package httpserver

import (
	"context"
	"net/http"
	"time"

	"garden-planner-go/internal/auth"
	"garden-planner-go/internal/config"
	"garden-planner-go/internal/metrics"
	"garden-planner-go/internal/transport/httpserver/handler"
	authmw "garden-planner-go/internal/transport/httpserver/middleware"
	"garden-planner-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	everyone     = auth.AllRoles
	planners     = []auth.Role{auth.RoleAdmin, auth.RoleEmployee, auth.RoleUser}
	staff        = []auth.Role{auth.RoleAdmin, auth.RoleEmployee}
	admins       = []auth.Role{auth.RoleAdmin}
	userManagers = []auth.Role{auth.RoleAdmin, auth.RoleUserAdmin}
)

type RouterDeps struct {
	Handlers *handler.Handlers
	Tokens   authmw.TokenParser
	Users    authmw.UserIDResolver
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer
}

// NewRouter builds the API. ctx bounds background work such as the rate
// limiter's cleanup.
func NewRouter(ctx context.Context, cfg config.Config, deps RouterDeps, log logger.Logger) http.Handler {
	handlers := deps.Handlers

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(authmw.RememberPeer)
	r.Use(chimw.RealIP)
	r.Use(authmw.RequestLogger(log))
	r.Use(authmw.AccessLog(log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORSOrigins))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	authn := authmw.NewAuthenticator(deps.Tokens, log)
	resolve := authmw.ResolveUserID(deps.Users, log)
	limiter := authmw.NewRateLimiter(ctx, authmw.RateLimiterConfig{
		PerMinute:      cfg.Auth.LoginRatePerMinute,
		Burst:          cfg.Auth.LoginBurst,
		TrustedProxies: cfg.TrustedProxies,
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		r.Route("/Accounts", func(r chi.Router) {
			r.With(limiter.Middleware).Post("/register", handlers.Register)
			r.With(limiter.Middleware).Post("/logIn", handlers.LogIn)

			r.Group(func(r chi.Router) {
				r.Use(authn.Middleware, resolve)
				r.Get("/isAuthorized", handlers.IsAuthorized)
				r.Get("/me", handlers.Me)
				r.Put("/password", handlers.ChangePassword)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(authn.Middleware, resolve)

			r.Route("/AppointmentTypes", func(r chi.Router) {
				r.With(authmw.RequireRoles(everyone...)).Get("/", handlers.ListAppointmentTypes)
				r.With(authmw.RequireRoles(everyone...)).Get("/{id}", handlers.GetAppointmentType)
				r.Group(func(r chi.Router) {
					r.Use(authmw.RequireRoles(admins...))
					r.Post("/", handlers.CreateAppointmentType)
					r.Put("/{id}", handlers.UpdateAppointmentType)
					r.Delete("/{id}", handlers.DeleteAppointmentType)
				})
			})

			r.Route("/Appointments", func(r chi.Router) {
				r.With(authmw.RequireRoles(staff...)).Post("/{id}/approve", handlers.ApproveAppointment)
				r.Group(func(r chi.Router) {
					r.Use(authmw.RequireRoles(planners...))
					r.Get("/", handlers.ListAppointments)
					r.Post("/", handlers.CreateAppointment)
					r.Get("/{id}", handlers.GetAppointment)
					r.Put("/{id}", handlers.UpdateAppointment)
					r.Delete("/{id}", handlers.DeleteAppointment)
				})
			})

			r.Route("/ToDos/{appointmentId}", func(r chi.Router) {
				r.Use(authmw.RequireRoles(planners...))
				r.Get("/", handlers.ListToDos)
				r.Post("/", handlers.CreateToDo)
				r.Get("/{id}", handlers.GetToDo)
				r.Put("/{id}", handlers.UpdateToDo)
				r.Delete("/{id}", handlers.DeleteToDo)
				r.Post("/{id}/toggle", handlers.ToggleToDo)
			})

			r.Route("/Vehicles", func(r chi.Router) {
				r.With(authmw.RequireRoles(staff...)).Get("/", handlers.ListVehicles)
				r.With(authmw.RequireRoles(staff...)).Get("/{id}", handlers.GetVehicle)
				r.Group(func(r chi.Router) {
					r.Use(authmw.RequireRoles(admins...))
					r.Post("/", handlers.CreateVehicle)
					r.Put("/{id}", handlers.UpdateVehicle)
					r.Delete("/{id}", handlers.DeleteVehicle)
				})
			})

			r.Route("/Users", func(r chi.Router) {
				r.Use(authmw.RequireRoles(userManagers...))
				r.Get("/", handlers.ListUsers)
				r.Get("/{id}", handlers.GetUser)
				r.Put("/{id}", handlers.UpdateUser)
				r.Delete("/{id}", handlers.DeleteUser)
				r.Put("/{id}/roles", handlers.SetUserRoles)
				r.Put("/{id}/vehicle", handlers.AssignUserVehicle)
				r.Delete("/{id}/vehicle", handlers.UnassignUserVehicle)
			})

			r.Route("/Languages", func(r chi.Router) {
				r.Get("/", handlers.ListLanguages)
				r.Group(func(r chi.Router) {
					r.Use(authmw.RequireRoles(admins...))
					r.Post("/reload", handlers.ReloadLanguages)
					r.Put("/{code}/active", handlers.SetLanguageActive)
				})
			})
		})
	})

	return r
}
