package uniterrors

import (
	"net/http"

	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/shared/apperror"
)

var (
	ErrUnitNotFound = apperror.New(
		apperror.CodeNotFound,
		"Unit not found",
		http.StatusNotFound,
	)

	ErrUnitAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Unit with the same slug already exists",
		http.StatusConflict,
	)

	ErrInvalidUnitID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid unit ID",
		http.StatusBadRequest,
	)
)
