package presenceerrors

import (
	"math"
	"net/http"

	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/shared/apperror"
)

var (
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrInvalidScheduleID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid schedule id",
		http.StatusBadRequest,
	)
	ErrInvalidUnitID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid unit id",
		http.StatusBadRequest,
	)
	ErrScheduleNotFound = apperror.New(
		apperror.CodeNotFound,
		"schedule not found",
		http.StatusNotFound,
	)
	ErrAlreadySubmitted = apperror.New(
		apperror.CodeConflict,
		"presence already recorded for this schedule",
		http.StatusConflict,
	)
	ErrWindowNotOpen = apperror.New(
		apperror.CodeInvalidState,
		"presence window is not open yet",
		http.StatusBadRequest,
	)
	ErrWindowClosed = apperror.New(
		apperror.CodeInvalidState,
		"presence window is already closed",
		http.StatusBadRequest,
	)
	ErrLocationRequired = apperror.New(
		apperror.CodeInvalidInput,
		"location is required for this schedule",
		http.StatusBadRequest,
	)
)

// GeofenceDetails dikirim ke client supaya pesan "di luar area" bisa
// menampilkan jarak terhitung vs radius yang diizinkan.
type GeofenceDetails struct {
	DistanceMeters float64 `json:"distance_meters"`
	RadiusMeters   float64 `json:"radius_meters"`
}

func OutsideGeofence(distanceMeters, radiusMeters float64) *apperror.AppError {
	return apperror.NewWithDetails(
		apperror.CodeInvalidState,
		"location is outside the allowed area",
		http.StatusBadRequest,
		GeofenceDetails{
			DistanceMeters: math.Round(distanceMeters*100) / 100,
			RadiusMeters:   radiusMeters,
		},
	)
}
