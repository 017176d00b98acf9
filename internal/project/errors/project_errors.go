package projecterrors

import (
	"net/http"

	"go-timesheet/internal/shared/apperror"
)

var (
	ErrProjectNotFound = apperror.New(
		apperror.CodeNotFound,
		"Project not found",
		http.StatusNotFound,
	)

	ErrTaskNotFound = apperror.New(
		apperror.CodeNotFound,
		"Task not found",
		http.StatusNotFound,
	)

	ErrInvalidProjectID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid project ID",
		http.StatusBadRequest,
	)

	ErrInvalidManagerID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid manager ID",
		http.StatusBadRequest,
	)

	ErrInvalidLeadID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid lead ID",
		http.StatusBadRequest,
	)

	ErrProjectCodeExists = apperror.New(
		apperror.CodeConflict,
		"A project with the same code already exists",
		http.StatusConflict,
	)
)
