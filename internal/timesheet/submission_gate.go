package timesheet

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// PendingReview is one outstanding approval owed by a reviewer.
type PendingReview struct {
	TimesheetID   string `json:"timesheet_id"`
	ProjectID     string `json:"project_id"`
	ProjectName   string `json:"project_name"`
	EmployeeName  string `json:"employee_name"`
	WeekStartDate string `json:"week_start_date"`
	Stage         string `json:"stage"`
}

type SubmitCheck struct {
	Allowed        bool            `json:"allowed"`
	Reason         string          `json:"reason,omitempty"`
	PendingReviews []PendingReview `json:"pending_reviews,omitempty"`
}

// PendingReviewsError carries the full pending list so the caller can
// tell the submitter exactly which reviews are owed.
type PendingReviewsError struct {
	Pending []PendingReview
}

func (e *PendingReviewsError) Error() string {
	return fmt.Sprintf("%d approvals are pending before you can submit your own timesheet", len(e.Pending))
}

// ValidationError carries the structured validator result for the
// 422 response body.
type ValidationError struct {
	Result ValidationResult
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("timesheet validation failed with %d blocking errors", len(e.Result.BlockingErrors))
}

// Gate runs the pre-submit eligibility check: a lead or manager who
// still owes reviews on other users' timesheets may not submit their
// own until those reviews are done.
type Gate struct {
	repo   Repository
	logger *zap.Logger
}

func NewGate(repo Repository, logger ...*zap.Logger) *Gate {
	l := zap.L().Named("timesheet.gate")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("timesheet.gate")
	}
	return &Gate{repo: repo, logger: l}
}

func (g *Gate) Check(ctx context.Context, companyID, submitterID string) (SubmitCheck, error) {
	pending, err := g.repo.FindPendingReviews(ctx, companyID, submitterID)
	if err != nil {
		g.logger.Error("pending reviews lookup failed",
			zap.String("company_id", companyID),
			zap.String("submitter_id", submitterID),
			zap.Error(err),
		)
		return SubmitCheck{}, err
	}

	if len(pending) > 0 {
		g.logger.Warn("submission blocked by pending reviews",
			zap.String("submitter_id", submitterID),
			zap.Int("pending_count", len(pending)),
		)
		return SubmitCheck{
			Allowed:        false,
			Reason:         fmt.Sprintf("you have %d timesheet reviews pending; complete them before submitting your own", len(pending)),
			PendingReviews: pending,
		}, nil
	}

	return SubmitCheck{Allowed: true}, nil
}
