package billingerrors

import (
	"net/http"

	"go-timesheet/internal/shared/apperror"
)

var (
	ErrTimesheetNotBillable = apperror.New(
		apperror.CodeInvalidState,
		"timesheet must be fully manager approved before billing",
		http.StatusBadRequest,
	)

	ErrTimesheetNotFrozen = apperror.New(
		apperror.CodeInvalidState,
		"timesheet must be verified before it can be billed",
		http.StatusBadRequest,
	)

	ErrInvoiceGenerationFailed = apperror.New(
		apperror.CodeInternalError,
		"failed to generate invoice document",
		http.StatusInternalServerError,
	)
)
