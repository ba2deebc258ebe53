package appointmenttype

import "errors"

var ErrAppointmentTypeNotFound = errors.New("appointment type not found")
