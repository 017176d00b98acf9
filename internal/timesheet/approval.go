package timesheet

import (
	timesheeterrors "go-timesheet/internal/timesheet/errors"

	"github.com/google/uuid"
)

// ProjectAssignment is the lead/manager pair resolved for a project
// at submission time.
type ProjectAssignment struct {
	LeadID    *uuid.UUID
	ManagerID uuid.UUID
}

// NewProjectApproval seeds the review record for one project. A
// project without a designated lead skips the lead stage entirely.
func NewProjectApproval(timesheetID, projectID uuid.UUID, assignment ProjectAssignment) ProjectApproval {
	leadStatus := ApprovalPending
	if assignment.LeadID == nil {
		leadStatus = ApprovalNotRequired
	}
	return ProjectApproval{
		TimesheetID:   timesheetID,
		ProjectID:     projectID,
		LeadID:        assignment.LeadID,
		LeadStatus:    leadStatus,
		ManagerID:     assignment.ManagerID,
		ManagerStatus: ApprovalPending,
	}
}

// BuildApprovals derives one ProjectApproval per distinct project
// referenced by the entries. LEAVE/TRAINING/MISCELLANEOUS entries do
// not participate in project approval.
func BuildApprovals(
	timesheetID uuid.UUID,
	entries []TimeEntry,
	assignments map[uuid.UUID]ProjectAssignment,
) ([]ProjectApproval, error) {
	order := make([]uuid.UUID, 0)
	byProject := make(map[uuid.UUID]*ProjectApproval)

	for _, e := range entries {
		if e.EntryCategory != CategoryProject || e.ProjectID == nil {
			continue
		}
		pid := *e.ProjectID
		pa, ok := byProject[pid]
		if !ok {
			assignment, found := assignments[pid]
			if !found {
				return nil, timesheeterrors.ErrProjectNotAssigned
			}
			created := NewProjectApproval(timesheetID, pid, assignment)
			byProject[pid] = &created
			order = append(order, pid)
			pa = &created
		}
		pa.EntriesCount++
		pa.TotalHours += e.Hours
	}

	approvals := make([]ProjectApproval, 0, len(order))
	for _, pid := range order {
		approvals = append(approvals, *byProject[pid])
	}
	return approvals, nil
}

// ApplyLeadDecision moves the lead stage PENDING -> APPROVED/REJECTED.
// Any other starting state is an integrity violation.
func (pa *ProjectApproval) ApplyLeadDecision(approve bool, reason string) error {
	if pa.LeadStatus != ApprovalPending {
		return timesheeterrors.ErrInvalidApprovalTransition
	}
	if approve {
		pa.LeadStatus = ApprovalApproved
		pa.LeadRejectionReason = nil
		return nil
	}
	if reason == "" {
		return timesheeterrors.ErrRejectionReasonRequired
	}
	pa.LeadStatus = ApprovalRejected
	pa.LeadRejectionReason = &reason
	return nil
}

// ApplyManagerDecision moves the manager stage PENDING ->
// APPROVED/REJECTED. The lead stage must be settled first.
func (pa *ProjectApproval) ApplyManagerDecision(approve bool, reason string) error {
	if pa.LeadStatus != ApprovalApproved && pa.LeadStatus != ApprovalNotRequired {
		return timesheeterrors.ErrLeadApprovalRequired
	}
	if pa.ManagerStatus != ApprovalPending {
		return timesheeterrors.ErrInvalidApprovalTransition
	}
	if approve {
		pa.ManagerStatus = ApprovalApproved
		pa.ManagerRejectionReason = nil
		return nil
	}
	if reason == "" {
		return timesheeterrors.ErrRejectionReasonRequired
	}
	pa.ManagerStatus = ApprovalRejected
	pa.ManagerRejectionReason = &reason
	return nil
}

// ResetForResubmission clears rejected stages back to PENDING so the
// owner's corrected entries go through review again. Approved stages
// on other projects are preserved.
func (pa *ProjectApproval) ResetForResubmission() {
	if pa.LeadStatus == ApprovalRejected {
		pa.LeadStatus = ApprovalPending
		pa.LeadRejectionReason = nil
		// a lead rejection invalidates any earlier manager view
		if pa.ManagerStatus == ApprovalApproved {
			pa.ManagerStatus = ApprovalPending
		}
	}
	if pa.ManagerStatus == ApprovalRejected {
		pa.ManagerStatus = ApprovalPending
		pa.ManagerRejectionReason = nil
	}
}

// RollupStatus aggregates per-project approval states into the
// timesheet status. Pure and deterministic: calling it twice on the
// same set yields the same answer. Projects with zero entries are
// excluded and can never block approval. An empty eligible set keeps
// the sheet in SUBMITTED.
func RollupStatus(approvals []ProjectApproval) string {
	eligible := make([]ProjectApproval, 0, len(approvals))
	for _, pa := range approvals {
		if pa.EntriesCount == 0 {
			continue
		}
		eligible = append(eligible, pa)
	}
	if len(eligible) == 0 {
		return StatusSubmitted
	}

	anyManagerRejected := false
	anyLeadRejected := false
	allManagerSettled := true
	allLeadSettled := true

	for _, pa := range eligible {
		if pa.ManagerStatus == ApprovalRejected {
			anyManagerRejected = true
		}
		if pa.LeadStatus == ApprovalRejected {
			anyLeadRejected = true
		}
		if pa.ManagerStatus != ApprovalApproved && pa.ManagerStatus != ApprovalNotRequired {
			allManagerSettled = false
		}
		if pa.LeadStatus != ApprovalApproved && pa.LeadStatus != ApprovalNotRequired {
			allLeadSettled = false
		}
	}

	switch {
	case anyManagerRejected:
		return StatusManagerRejected
	case anyLeadRejected:
		return StatusLeadRejected
	case allManagerSettled:
		return StatusManagerApproved
	case allLeadSettled:
		return StatusLeadApproved
	default:
		return StatusSubmitted
	}
}

// CanTransition is the timesheet-level transition table. FROZEN and
// BILLED are only ever entered from the billing side; the rollup
// never produces them.
func CanTransition(from, to string) bool {
	if from == to {
		return false
	}
	switch from {
	case StatusDraft:
		return to == StatusSubmitted
	case StatusSubmitted:
		return to == StatusLeadApproved || to == StatusLeadRejected ||
			to == StatusManagerApproved || to == StatusManagerRejected
	case StatusLeadApproved:
		return to == StatusManagerApproved || to == StatusManagerRejected
	case StatusLeadRejected, StatusManagerRejected:
		return to == StatusSubmitted
	case StatusManagerApproved:
		return to == StatusFrozen || to == StatusBilled
	case StatusFrozen:
		return to == StatusBilled
	default:
		return false
	}
}
