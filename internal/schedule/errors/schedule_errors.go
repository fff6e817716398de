package scheduleerrors

import (
	"net/http"

	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/shared/apperror"
)

var (
	ErrInvalidUnitID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid unit id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidScheduleID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid schedule id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidTimeFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid time format, expected HH:MM",
		http.StatusBadRequest,
	)
	ErrGeofenceIncomplete = apperror.New(
		apperror.CodeInvalidInput,
		"latitude and longitude must be provided together",
		http.StatusBadRequest,
	)
	ErrScheduleNotFound = apperror.New(
		apperror.CodeNotFound,
		"schedule not found",
		http.StatusNotFound,
	)
	ErrScheduleCancelled = apperror.New(
		apperror.CodeInvalidState,
		"schedule is already cancelled",
		http.StatusBadRequest,
	)
)
