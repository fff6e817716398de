package membererrors

import (
	"net/http"

	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/shared/apperror"
)

var (
	ErrMemberNotFound = apperror.New(
		apperror.CodeNotFound,
		"Member not found",
		http.StatusNotFound,
	)
	ErrMemberAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Member with the same email already exists",
		http.StatusConflict,
	)
	ErrInvalidMemberID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid member ID",
		http.StatusBadRequest,
	)
	ErrInvalidUnitID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid unit ID",
		http.StatusBadRequest,
	)
	ErrInvalidJoinDate = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid join_date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
)
