package timesheeterrors

import (
	"net/http"

	"go-timesheet/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidTimesheetID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid timesheet id",
		http.StatusBadRequest,
	)
	ErrInvalidProjectID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid project id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrWeekStartNotMonday = apperror.New(
		apperror.CodeInvalidInput,
		"week_start_date must be a Monday",
		http.StatusBadRequest,
	)
	ErrEntryDateOutsideWeek = apperror.New(
		apperror.CodeInvalidInput,
		"entry date falls outside the timesheet week",
		http.StatusBadRequest,
	)
	ErrTimesheetNotFound = apperror.New(
		apperror.CodeNotFound,
		"timesheet not found",
		http.StatusNotFound,
	)
	ErrApprovalNotFound = apperror.New(
		apperror.CodeNotFound,
		"project approval not found on this timesheet",
		http.StatusNotFound,
	)
	ErrTimesheetExists = apperror.New(
		apperror.CodeConflict,
		"a timesheet already exists for this week",
		http.StatusConflict,
	)
	ErrTimesheetConflict = apperror.New(
		apperror.CodeConflict,
		"timesheet changed, reload and retry",
		http.StatusConflict,
	)
	ErrNotTimesheetOwner = apperror.New(
		apperror.CodeForbidden,
		"only the timesheet owner may modify entries",
		http.StatusForbidden,
	)
	ErrNotProjectApprover = apperror.New(
		apperror.CodeForbidden,
		"you are not the designated approver for this project",
		http.StatusForbidden,
	)
	ErrTimesheetNotEditable = apperror.New(
		apperror.CodeInvalidState,
		"timesheet is not in an editable state",
		http.StatusBadRequest,
	)
	ErrEntryLocked = apperror.New(
		apperror.CodeInvalidState,
		"entry belongs to a project that is locked for editing",
		http.StatusBadRequest,
	)
	ErrAddEntryLocked = apperror.New(
		apperror.CodeInvalidState,
		"new entries cannot be added while a partial rejection is open",
		http.StatusBadRequest,
	)
	ErrInvalidApprovalTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid approval state transition",
		http.StatusBadRequest,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid timesheet status transition",
		http.StatusBadRequest,
	)
	ErrLeadApprovalRequired = apperror.New(
		apperror.CodeInvalidState,
		"manager decision requires lead approval first",
		http.StatusBadRequest,
	)
	ErrRejectionReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"rejection_reason is required when rejecting",
		http.StatusBadRequest,
	)
	ErrInvalidApproverRole = apperror.New(
		apperror.CodeInvalidInput,
		"approver role must be LEAD or MANAGER",
		http.StatusBadRequest,
	)
	ErrProjectNotAssigned = apperror.New(
		apperror.CodeInvalidState,
		"project has no manager assigned for approval",
		http.StatusBadRequest,
	)
)
