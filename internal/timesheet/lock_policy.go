package timesheet

import (
	"github.com/google/uuid"
)

const (
	ModeCreate = "create"
	ModeEdit   = "edit"
	ModeView   = "view"
)

// LockDecision is the single source of truth for entry editability.
// It is computed once per request and reused for edit, copy, remove
// and add-entry checks so the callers can never diverge.
type LockDecision struct {
	status           string
	mode             string
	partialRejection bool
	rejectedProjects map[uuid.UUID]bool
}

// NewLockDecision derives the lock state from the timesheet status and
// its approval records. A partial rejection exists when at least one
// but not all projects were rejected at the stage matching the status.
func NewLockDecision(status, mode string, approvals []ProjectApproval) LockDecision {
	d := LockDecision{
		status:           status,
		mode:             mode,
		rejectedProjects: map[uuid.UUID]bool{},
	}

	rejected := 0
	eligible := 0
	for _, pa := range approvals {
		if pa.EntriesCount == 0 {
			continue
		}
		eligible++
		if stageRejected(status, pa) {
			rejected++
			d.rejectedProjects[pa.ProjectID] = true
		}
	}
	d.partialRejection = rejected > 0 && rejected < eligible
	return d
}

func stageRejected(status string, pa ProjectApproval) bool {
	switch status {
	case StatusLeadRejected:
		return pa.LeadStatus == ApprovalRejected
	case StatusManagerRejected:
		return pa.ManagerStatus == ApprovalRejected
	default:
		return false
	}
}

func (d LockDecision) PartialRejection() bool {
	return d.partialRejection
}

// EntryEditable implements the editability decision table. Non-project
// categories are exempt from project approval locking and follow the
// timesheet-level state only.
func (d LockDecision) EntryEditable(e TimeEntry) bool {
	projectRejected := e.ProjectID != nil && d.rejectedProjects[*e.ProjectID]

	if d.mode == ModeView {
		// editing is still allowed from a view context when the entry's
		// project was rejected, or the whole sheet came back from the
		// lead, so resubmission flows keep working
		return projectRejected || (d.status == StatusLeadRejected && !d.partialRejection)
	}

	if !IsEditableStatus(d.status) {
		return false
	}
	if !d.partialRejection {
		return true
	}
	if e.EntryCategory != CategoryProject {
		return true
	}
	return projectRejected
}

// CanAddEntry gates creating brand-new entries. During a partial
// rejection only existing entries of rejected projects may change.
func (d LockDecision) CanAddEntry() bool {
	if d.mode == ModeView {
		return false
	}
	if !IsEditableStatus(d.status) {
		return false
	}
	return !d.partialRejection
}

// CanRemoveEntry and CanCopyEntry are gated by the same decision as
// editing; they exist so call sites name the operation they guard.
func (d LockDecision) CanRemoveEntry(e TimeEntry) bool {
	return d.EntryEditable(e)
}

func (d LockDecision) CanCopyEntry(e TimeEntry) bool {
	return d.EntryEditable(e)
}
