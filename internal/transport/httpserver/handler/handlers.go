package handler

import (
	"net/http"

	"garden-planner-go/internal/auth"
	appointmentdomain "garden-planner-go/internal/domain/appointment"
	typedomain "garden-planner-go/internal/domain/appointmenttype"
	languagedomain "garden-planner-go/internal/domain/language"
	tododomain "garden-planner-go/internal/domain/todo"
	userdomain "garden-planner-go/internal/domain/user"
	vehicledomain "garden-planner-go/internal/domain/vehicle"
	"garden-planner-go/internal/transport/httpserver/middleware"
	"garden-planner-go/pkg/logger"
)

// LoginRecorder counts login outcomes.
type LoginRecorder interface {
	RecordLogin(success bool)
}

type Services struct {
	AppointmentTypes *typedomain.Service
	Appointments     *appointmentdomain.Service
	ToDos            *tododomain.Service
	Vehicles         *vehicledomain.Service
	Users            *userdomain.Service
	Languages        *languagedomain.Service
}

type Handlers struct {
	Services

	tokens *auth.TokenIssuer
	logins LoginRecorder
	log    logger.Logger
}

func New(services Services, tokens *auth.TokenIssuer, logins LoginRecorder, log logger.Logger) *Handlers {
	if log == nil {
		log = logger.Nop()
	}
	return &Handlers{
		Services: services,
		tokens:   tokens,
		logins:   logins,
		log:      log,
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// logFor returns the request-scoped logger, tagged with the request id.
func (h *Handlers) logFor(r *http.Request) logger.Logger {
	return logger.FromContext(r.Context(), h.log)
}

// principal reads the caller and answers 401 when there is none.
func principal(w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok || p.UserID == "" {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return auth.Principal{}, false
	}
	return p, true
}

func scopeOf(p auth.Principal) appointmentdomain.Scope {
	return appointmentdomain.Scope{UserID: p.UserID, All: p.CanSeeAll()}
}
