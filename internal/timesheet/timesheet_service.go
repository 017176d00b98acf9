package timesheet

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-timesheet/internal/events"
	"go-timesheet/internal/messaging/kafka"
	"go-timesheet/internal/shared/contextutil"
	timesheeterrors "go-timesheet/internal/timesheet/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=timesheet_service.go -destination=mock/timesheet_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreateTimesheetRequest) (TimesheetResponse, error)
	GetAll(ctx context.Context, companyID string) ([]TimesheetResponse, error)
	GetByID(ctx context.Context, companyID, actorID, id, mode string) (TimesheetDetailResponse, error)
	UpdateEntries(ctx context.Context, companyID, actorID, id string, req UpdateEntriesRequest) (TimesheetDetailResponse, error)
	Validate(ctx context.Context, companyID, id string) (ValidationResult, error)
	CanSubmit(ctx context.Context, companyID, actorID string) (SubmitCheck, error)
	Submit(ctx context.Context, companyID, actorID, id string) (TimesheetDetailResponse, error)
	ApproveProject(ctx context.Context, companyID, actorID, id, projectID, role string) (TimesheetDetailResponse, error)
	RejectProject(ctx context.Context, companyID, actorID, id, projectID, role, reason string) (TimesheetDetailResponse, error)
	PendingReviews(ctx context.Context, companyID, actorID string) ([]PendingReview, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	gate   *Gate
	rules  Rules
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rules Rules, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, nil, rules, logger...)
}

func NewServiceWithOutbox(db *sql.DB, repo Repository, outbox kafka.OutboxRepository, rules Rules, logger ...*zap.Logger) Service {
	l := zap.L().Named("timesheet.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("timesheet.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		outbox: outbox,
		gate:   NewGate(repo, l),
		rules:  rules,
		logger: l,
	}
}

func (s *service) Create(ctx context.Context, companyID, actorID string, req CreateTimesheetRequest) (TimesheetResponse, error) {
	s.logger.Debug("create timesheet requested",
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
		zap.String("week_start_date", req.WeekStartDate),
	)

	companyUUID, actorUUID, err := parseScope(companyID, actorID)
	if err != nil {
		return TimesheetResponse{}, err
	}
	weekStart, err := parseDate(req.WeekStartDate)
	if err != nil {
		return TimesheetResponse{}, err
	}
	if weekStart.Weekday() != time.Monday {
		return TimesheetResponse{}, timesheeterrors.ErrWeekStartNotMonday
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create timesheet begin tx failed", zap.Error(err))
		return TimesheetResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.ExistsForUserWeek(ctx, companyID, actorID, weekStart)
	if err != nil {
		s.logger.Error("create timesheet week check failed", zap.Error(err))
		return TimesheetResponse{}, err
	}
	if exists {
		return TimesheetResponse{}, timesheeterrors.ErrTimesheetExists
	}

	t := &Timesheet{
		ID:            uuid.New(),
		CompanyID:     companyUUID,
		UserID:        actorUUID,
		WeekStartDate: weekStart,
		Status:        StatusDraft,
		Version:       1,
	}
	if err := qtx.Create(ctx, t); err != nil {
		s.logger.Error("create timesheet persist failed", zap.Error(err))
		return TimesheetResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("create timesheet commit failed", zap.Error(err))
		return TimesheetResponse{}, err
	}

	s.logger.Info("create timesheet success",
		zap.String("timesheet_id", t.ID.String()),
		zap.String("user_id", actorID),
	)
	return mapToResponse(*t), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]TimesheetResponse, error) {
	sheets, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	resp := make([]TimesheetResponse, len(sheets))
	for i, t := range sheets {
		resp[i] = mapToResponse(t)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, actorID, id, mode string) (TimesheetDetailResponse, error) {
	t, err := s.findTimesheet(ctx, s.repo, companyID, id)
	if err != nil {
		return TimesheetDetailResponse{}, err
	}
	if mode == "" {
		mode = ModeView
		if actorID == t.UserID.String() && IsEditableStatus(t.Status) {
			mode = ModeEdit
		}
	}
	return mapToDetailResponse(*t, mode), nil
}

// UpdateEntries replaces the week's entries, enforcing the lock
// decision server-side: frozen entries must come back unchanged and
// brand-new entries are refused during a partial rejection.
func (s *service) UpdateEntries(ctx context.Context, companyID, actorID, id string, req UpdateEntriesRequest) (TimesheetDetailResponse, error) {
	s.logger.Debug("update entries requested",
		zap.String("timesheet_id", id),
		zap.String("actor_id", actorID),
		zap.Int("entry_count", len(req.Entries)),
	)

	if _, _, err := parseScope(companyID, actorID); err != nil {
		return TimesheetDetailResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update entries begin tx failed", zap.Error(err))
		return TimesheetDetailResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	t, err := s.findTimesheet(ctx, qtx, companyID, id)
	if err != nil {
		return TimesheetDetailResponse{}, err
	}
	if t.UserID.String() != actorID {
		return TimesheetDetailResponse{}, timesheeterrors.ErrNotTimesheetOwner
	}
	if !IsEditableStatus(t.Status) {
		return TimesheetDetailResponse{}, timesheeterrors.ErrTimesheetNotEditable
	}

	incoming, err := parseEntryInputs(t.ID, t.WeekStartDate, req.Entries)
	if err != nil {
		return TimesheetDetailResponse{}, err
	}

	decision := NewLockDecision(t.Status, ModeEdit, t.Approvals)
	if err := enforceLockDecision(decision, t.Entries, incoming); err != nil {
		s.logger.Warn("update entries blocked by lock policy",
			zap.String("timesheet_id", id),
			zap.Error(err),
		)
		return TimesheetDetailResponse{}, err
	}

	normalized := s.rules.NormalizeEntries(incoming)
	if err := qtx.ReplaceEntries(ctx, t.ID, normalized); err != nil {
		s.logger.Error("update entries persist failed", zap.Error(err))
		return TimesheetDetailResponse{}, err
	}

	if err := s.refreshApprovals(ctx, qtx, t, normalized); err != nil {
		return TimesheetDetailResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update entries commit failed", zap.Error(err))
		return TimesheetDetailResponse{}, err
	}
	s.logger.Info("update entries success",
		zap.String("timesheet_id", id),
		zap.Int("entry_count", len(normalized)),
	)

	return s.GetByID(ctx, companyID, actorID, id, ModeEdit)
}

func (s *service) Validate(ctx context.Context, companyID, id string) (ValidationResult, error) {
	t, err := s.findTimesheet(ctx, s.repo, companyID, id)
	if err != nil {
		return ValidationResult{}, err
	}
	return s.rules.ValidateWeek(t.Entries, t.WeekStartDate), nil
}

func (s *service) CanSubmit(ctx context.Context, companyID, actorID string) (SubmitCheck, error) {
	if _, _, err := parseScope(companyID, actorID); err != nil {
		return SubmitCheck{}, err
	}
	return s.gate.Check(ctx, companyID, actorID)
}

// Submit runs the full gate: eligibility pre-check, server-side
// re-validation, billability normalization, approval (re)build and the
// status transition, all in one transaction.
func (s *service) Submit(ctx context.Context, companyID, actorID, id string) (TimesheetDetailResponse, error) {
	s.logger.Debug("submit timesheet requested",
		zap.String("timesheet_id", id),
		zap.String("actor_id", actorID),
	)

	if _, _, err := parseScope(companyID, actorID); err != nil {
		return TimesheetDetailResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit begin tx failed", zap.Error(err))
		return TimesheetDetailResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	t, err := s.findTimesheet(ctx, qtx, companyID, id)
	if err != nil {
		return TimesheetDetailResponse{}, err
	}
	if t.UserID.String() != actorID {
		return TimesheetDetailResponse{}, timesheeterrors.ErrNotTimesheetOwner
	}
	if !CanTransition(t.Status, StatusSubmitted) {
		s.logger.Warn("submit from invalid status",
			zap.String("timesheet_id", id),
			zap.String("status", t.Status),
		)
		return TimesheetDetailResponse{}, timesheeterrors.ErrInvalidStatusTransition
	}
	resubmission := t.Status != StatusDraft

	check, err := s.gate.Check(ctx, companyID, actorID)
	if err != nil {
		return TimesheetDetailResponse{}, err
	}
	if !check.Allowed {
		return TimesheetDetailResponse{}, &PendingReviewsError{Pending: check.PendingReviews}
	}

	// client-side validation is advisory only; the server result decides
	result := s.rules.ValidateWeek(t.Entries, t.WeekStartDate)
	if !result.Valid() {
		s.logger.Warn("submit blocked by validation",
			zap.String("timesheet_id", id),
			zap.Int("blocking_errors", len(result.BlockingErrors)),
		)
		return TimesheetDetailResponse{}, &ValidationError{Result: result}
	}

	normalized := s.rules.NormalizeEntries(t.Entries)
	if err := qtx.ReplaceEntries(ctx, t.ID, normalized); err != nil {
		s.logger.Error("submit persist entries failed", zap.Error(err))
		return TimesheetDetailResponse{}, err
	}

	if resubmission {
		for i := range t.Approvals {
			t.Approvals[i].ResetForResubmission()
			if err := qtx.UpdateApproval(ctx, &t.Approvals[i]); err != nil {
				s.logger.Error("submit reset approval failed", zap.Error(err))
				return TimesheetDetailResponse{}, err
			}
		}
		if err := qtx.ClearEntriesRejectionReasons(ctx, t.ID); err != nil {
			return TimesheetDetailResponse{}, err
		}
	} else {
		if err := s.refreshApprovals(ctx, qtx, t, normalized); err != nil {
			return TimesheetDetailResponse{}, err
		}
	}

	fromVersion := t.Version
	t.Status = StatusSubmitted
	if err := qtx.UpdateStatusVersioned(ctx, t, fromVersion); err != nil {
		s.logger.Warn("submit status update failed",
			zap.String("timesheet_id", id),
			zap.Error(err),
		)
		return TimesheetDetailResponse{}, err
	}

	if err := s.enqueueSubmittedEvent(ctx, tx, t, resubmission); err != nil {
		return TimesheetDetailResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit commit failed", zap.Error(err))
		return TimesheetDetailResponse{}, err
	}
	s.logger.Info("submit timesheet success",
		zap.String("timesheet_id", id),
		zap.Bool("resubmission", resubmission),
	)

	return s.GetByID(ctx, companyID, actorID, id, ModeView)
}

func (s *service) ApproveProject(ctx context.Context, companyID, actorID, id, projectID, role string) (TimesheetDetailResponse, error) {
	return s.decideProject(ctx, companyID, actorID, id, projectID, role, true, "")
}

func (s *service) RejectProject(ctx context.Context, companyID, actorID, id, projectID, role, reason string) (TimesheetDetailResponse, error) {
	if reason == "" {
		return TimesheetDetailResponse{}, timesheeterrors.ErrRejectionReasonRequired
	}
	return s.decideProject(ctx, companyID, actorID, id, projectID, role, false, reason)
}

func (s *service) decideProject(ctx context.Context, companyID, actorID, id, projectID, role string, approve bool, reason string) (TimesheetDetailResponse, error) {
	s.logger.Debug("project decision requested",
		zap.String("timesheet_id", id),
		zap.String("project_id", projectID),
		zap.String("actor_id", actorID),
		zap.String("role", role),
		zap.Bool("approve", approve),
	)

	if role != RoleLead && role != RoleManager {
		return TimesheetDetailResponse{}, timesheeterrors.ErrInvalidApproverRole
	}
	if _, _, err := parseScope(companyID, actorID); err != nil {
		return TimesheetDetailResponse{}, err
	}
	projectUUID, err := uuid.Parse(projectID)
	if err != nil {
		return TimesheetDetailResponse{}, timesheeterrors.ErrInvalidProjectID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("project decision begin tx failed", zap.Error(err))
		return TimesheetDetailResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	t, err := s.findTimesheet(ctx, qtx, companyID, id)
	if err != nil {
		return TimesheetDetailResponse{}, err
	}
	if t.Status != StatusSubmitted && t.Status != StatusLeadApproved {
		s.logger.Warn("project decision on non-reviewable timesheet",
			zap.String("timesheet_id", id),
			zap.String("status", t.Status),
		)
		return TimesheetDetailResponse{}, timesheeterrors.ErrInvalidStatusTransition
	}

	var pa *ProjectApproval
	for i := range t.Approvals {
		if t.Approvals[i].ProjectID == projectUUID {
			pa = &t.Approvals[i]
			break
		}
	}
	if pa == nil {
		return TimesheetDetailResponse{}, timesheeterrors.ErrApprovalNotFound
	}

	switch role {
	case RoleLead:
		if pa.LeadID == nil || pa.LeadID.String() != actorID {
			return TimesheetDetailResponse{}, timesheeterrors.ErrNotProjectApprover
		}
		err = pa.ApplyLeadDecision(approve, reason)
	case RoleManager:
		if pa.ManagerID.String() != actorID {
			return TimesheetDetailResponse{}, timesheeterrors.ErrNotProjectApprover
		}
		err = pa.ApplyManagerDecision(approve, reason)
	}
	if err != nil {
		s.logger.Warn("project decision rejected by state machine",
			zap.String("timesheet_id", id),
			zap.String("project_id", projectID),
			zap.String("role", role),
			zap.Error(err),
		)
		return TimesheetDetailResponse{}, err
	}

	if err := qtx.UpdateApproval(ctx, pa); err != nil {
		s.logger.Error("project decision persist failed", zap.Error(err))
		return TimesheetDetailResponse{}, err
	}

	if !approve {
		r := reason
		if err := qtx.SetEntriesRejectionReason(ctx, t.ID, projectUUID, &r); err != nil {
			return TimesheetDetailResponse{}, err
		}
	}

	statusBefore := t.Status
	rollup := RollupStatus(t.Approvals)
	if rollup != t.Status {
		if !CanTransition(t.Status, rollup) {
			// the rollup only produces reachable states; anything else
			// means the loaded sheet is stale or corrupted
			s.logger.Error("rollup produced unreachable status",
				zap.String("timesheet_id", id),
				zap.String("from", t.Status),
				zap.String("to", rollup),
			)
			return TimesheetDetailResponse{}, timesheeterrors.ErrInvalidStatusTransition
		}
		fromVersion := t.Version
		t.Status = rollup
		if err := qtx.UpdateStatusVersioned(ctx, t, fromVersion); err != nil {
			return TimesheetDetailResponse{}, err
		}
	}

	action := ActionApproved
	var reasonPtr *string
	if !approve {
		action = ActionRejected
		reasonPtr = &reason
	}
	actorUUID := uuid.MustParse(actorID)
	history := &ApprovalHistoryEntry{
		ID:           uuid.New(),
		TimesheetID:  t.ID,
		ProjectID:    &projectUUID,
		Action:       action,
		ApproverRole: role,
		ApproverID:   actorUUID,
		StatusBefore: statusBefore,
		StatusAfter:  t.Status,
		Reason:       reasonPtr,
	}
	if err := qtx.AppendHistory(ctx, history); err != nil {
		s.logger.Error("append approval history failed", zap.Error(err))
		return TimesheetDetailResponse{}, err
	}

	if err := s.enqueueApprovalEvent(ctx, tx, t, history); err != nil {
		return TimesheetDetailResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("project decision commit failed", zap.Error(err))
		return TimesheetDetailResponse{}, err
	}
	s.logger.Info("project decision success",
		zap.String("timesheet_id", id),
		zap.String("project_id", projectID),
		zap.String("role", role),
		zap.String("action", action),
		zap.String("status", t.Status),
	)

	return s.GetByID(ctx, companyID, actorID, id, ModeView)
}

func (s *service) PendingReviews(ctx context.Context, companyID, actorID string) ([]PendingReview, error) {
	if _, _, err := parseScope(companyID, actorID); err != nil {
		return nil, err
	}
	return s.repo.FindPendingReviews(ctx, companyID, actorID)
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Delete(ctx, companyID, id); err != nil {
		return err
	}
	return tx.Commit()
}

// refreshApprovals rebuilds the per-project approval set from the
// current entries. In DRAFT everything resets to pending; in a
// rejection state existing decisions are preserved and only the
// counters move, so approved projects stay approved.
func (s *service) refreshApprovals(ctx context.Context, repo Repository, t *Timesheet, entries []TimeEntry) error {
	projectIDs := distinctProjectIDs(entries)

	if t.Status == StatusDraft {
		assignments, err := repo.ProjectAssignments(ctx, t.CompanyID.String(), projectIDs)
		if err != nil {
			return err
		}
		approvals, err := BuildApprovals(t.ID, entries, assignments)
		if err != nil {
			return err
		}
		return repo.ReplaceApprovals(ctx, t.ID, approvals)
	}

	counts := map[uuid.UUID]ProjectApproval{}
	for _, e := range entries {
		if e.EntryCategory != CategoryProject || e.ProjectID == nil {
			continue
		}
		c := counts[*e.ProjectID]
		c.EntriesCount++
		c.TotalHours += e.Hours
		counts[*e.ProjectID] = c
	}

	known := map[uuid.UUID]bool{}
	for i := range t.Approvals {
		pa := &t.Approvals[i]
		known[pa.ProjectID] = true
		c := counts[pa.ProjectID]
		pa.EntriesCount = c.EntriesCount
		pa.TotalHours = c.TotalHours
		if err := repo.UpdateApproval(ctx, pa); err != nil {
			return err
		}
	}
	for pid := range counts {
		if !known[pid] {
			// new project scope cannot be introduced while fixing a rejection
			return timesheeterrors.ErrEntryLocked
		}
	}
	return nil
}

// enforceLockDecision verifies the incoming entry set against the lock
// policy: locked entries must be preserved byte-for-byte and additions
// obey CanAddEntry.
func enforceLockDecision(decision LockDecision, existing, incoming []TimeEntry) error {
	byID := make(map[uuid.UUID]TimeEntry, len(incoming))
	for _, e := range incoming {
		if e.ID != uuid.Nil {
			byID[e.ID] = e
		}
	}

	existingIDs := make(map[uuid.UUID]bool, len(existing))
	for _, e := range existing {
		existingIDs[e.ID] = true
		if decision.EntryEditable(e) {
			continue
		}
		kept, ok := byID[e.ID]
		if !ok || !entriesEqual(e, kept) {
			return timesheeterrors.ErrEntryLocked
		}
	}

	if decision.CanAddEntry() {
		return nil
	}
	for _, e := range incoming {
		if e.ID == uuid.Nil || !existingIDs[e.ID] {
			return timesheeterrors.ErrAddEntryLocked
		}
	}
	return nil
}

func entriesEqual(a, b TimeEntry) bool {
	return uuidPtrEqual(a.ProjectID, b.ProjectID) &&
		uuidPtrEqual(a.TaskID, b.TaskID) &&
		strPtrEqual(a.CustomTaskDescription, b.CustomTaskDescription) &&
		a.EntryDate.Equal(b.EntryDate) &&
		a.Hours == b.Hours &&
		a.IsBillable == b.IsBillable &&
		a.EntryCategory == b.EntryCategory &&
		strPtrEqual(a.LeaveSession, b.LeaveSession)
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func distinctProjectIDs(entries []TimeEntry) []uuid.UUID {
	seen := map[uuid.UUID]bool{}
	ids := make([]uuid.UUID, 0)
	for _, e := range entries {
		if e.EntryCategory != CategoryProject || e.ProjectID == nil {
			continue
		}
		if !seen[*e.ProjectID] {
			seen[*e.ProjectID] = true
			ids = append(ids, *e.ProjectID)
		}
	}
	return ids
}

func (s *service) enqueueSubmittedEvent(ctx context.Context, tx *sql.Tx, t *Timesheet, resubmission bool) error {
	if s.outbox == nil {
		return nil
	}
	event := events.TimesheetSubmittedEvent{
		EventType:     "timesheet_submitted",
		TimesheetID:   t.ID.String(),
		CompanyID:     t.CompanyID.String(),
		UserID:        t.UserID.String(),
		WeekStartDate: t.WeekStartDate.Format("2006-01-02"),
		Resubmission:  resubmission,
		OccurredAt:    time.Now().UTC(),
	}
	return s.enqueueOutbox(ctx, tx, t, event.EventType, events.TimesheetLifecycleTopic, event)
}

func (s *service) enqueueApprovalEvent(ctx context.Context, tx *sql.Tx, t *Timesheet, h *ApprovalHistoryEntry) error {
	if s.outbox == nil {
		return nil
	}
	event := events.ApprovalRecordedEvent{
		EventType:    "approval_recorded",
		TimesheetID:  t.ID.String(),
		CompanyID:    t.CompanyID.String(),
		ApproverID:   h.ApproverID.String(),
		ApproverRole: h.ApproverRole,
		Action:       h.Action,
		StatusAfter:  h.StatusAfter,
		OccurredAt:   time.Now().UTC(),
	}
	if h.ProjectID != nil {
		event.ProjectID = h.ProjectID.String()
	}
	if h.Reason != nil {
		event.Reason = *h.Reason
	}
	return s.enqueueOutbox(ctx, tx, t, event.EventType, events.ApprovalRecordedTopic, event)
}

func (s *service) enqueueOutbox(ctx context.Context, tx *sql.Tx, t *Timesheet, eventType, topic string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "timesheet",
		AggregateID:   t.ID.String(),
		EventType:     eventType,
		Topic:         topic,
		Payload:       raw,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) findTimesheet(ctx context.Context, repo Repository, companyID, id string) (*Timesheet, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, timesheeterrors.ErrInvalidTimesheetID
	}
	t, err := repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, timesheeterrors.ErrTimesheetNotFound
		}
		return nil, err
	}
	return t, nil
}

func parseScope(companyID, actorID string) (uuid.UUID, uuid.UUID, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return uuid.Nil, uuid.Nil, timesheeterrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return uuid.Nil, uuid.Nil, timesheeterrors.ErrInvalidActorID
	}
	return companyUUID, actorUUID, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, timesheeterrors.ErrInvalidDateFormat
	}
	return t, nil
}

func parseEntryInputs(timesheetID uuid.UUID, weekStart time.Time, inputs []EntryInput) ([]TimeEntry, error) {
	weekEnd := weekStart.AddDate(0, 0, 6)
	entries := make([]TimeEntry, 0, len(inputs))

	for _, in := range inputs {
		entryDate, err := parseDate(in.EntryDate)
		if err != nil {
			return nil, err
		}
		if entryDate.Before(weekStart) || entryDate.After(weekEnd) {
			return nil, timesheeterrors.ErrEntryDateOutsideWeek
		}

		e := TimeEntry{
			TimesheetID:           timesheetID,
			CustomTaskDescription: in.CustomTaskDescription,
			EntryDate:             entryDate,
			Hours:                 in.Hours,
			IsBillable:            in.IsBillable,
			EntryCategory:         in.EntryCategory,
			LeaveSession:          in.LeaveSession,
		}
		if in.ID != nil {
			entryID, err := uuid.Parse(*in.ID)
			if err != nil {
				return nil, timesheeterrors.ErrInvalidTimesheetID
			}
			e.ID = entryID
		} else {
			e.ID = uuid.New()
		}
		if in.ProjectID != nil {
			pid, err := uuid.Parse(*in.ProjectID)
			if err != nil {
				return nil, timesheeterrors.ErrInvalidProjectID
			}
			e.ProjectID = &pid
		}
		if in.TaskID != nil {
			tid, err := uuid.Parse(*in.TaskID)
			if err != nil {
				return nil, timesheeterrors.ErrInvalidProjectID
			}
			e.TaskID = &tid
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func mapToResponse(t Timesheet) TimesheetResponse {
	resp := TimesheetResponse{
		ID:            t.ID.String(),
		CompanyID:     t.CompanyID.String(),
		UserID:        t.UserID.String(),
		WeekStartDate: t.WeekStartDate.Format("2006-01-02"),
		Status:        t.Status,
		Version:       t.Version,
		WeeklyTotal:   t.WeeklyTotal(),
	}
	if t.Owner != nil {
		resp.UserName = t.Owner.FullName
	}
	return resp
}

func mapToDetailResponse(t Timesheet, mode string) TimesheetDetailResponse {
	decision := NewLockDecision(t.Status, mode, t.Approvals)

	detail := TimesheetDetailResponse{
		TimesheetResponse: mapToResponse(t),
		Entries:           make([]EntryResponse, len(t.Entries)),
		Approvals:         make([]ApprovalResponse, len(t.Approvals)),
		History:           make([]HistoryResponse, len(t.History)),
		DailyTotals:       t.DailyTotals(),
		PartialRejection:  decision.PartialRejection(),
		CanAddEntry:       decision.CanAddEntry(),
	}

	for i, e := range t.Entries {
		er := EntryResponse{
			ID:                    e.ID.String(),
			CustomTaskDescription: e.CustomTaskDescription,
			EntryDate:             e.EntryDate.Format("2006-01-02"),
			Hours:                 e.Hours,
			IsBillable:            e.IsBillable,
			EntryCategory:         e.EntryCategory,
			LeaveSession:          e.LeaveSession,
			IsEditable:            decision.EntryEditable(e),
			RejectionReason:       e.RejectionReason,
		}
		if e.ProjectID != nil {
			v := e.ProjectID.String()
			er.ProjectID = &v
		}
		if e.TaskID != nil {
			v := e.TaskID.String()
			er.TaskID = &v
		}
		detail.Entries[i] = er
	}

	for i, pa := range t.Approvals {
		ar := ApprovalResponse{
			ProjectID:              pa.ProjectID.String(),
			LeadStatus:             pa.LeadStatus,
			LeadRejectionReason:    pa.LeadRejectionReason,
			ManagerID:              pa.ManagerID.String(),
			ManagerStatus:          pa.ManagerStatus,
			ManagerRejectionReason: pa.ManagerRejectionReason,
			EntriesCount:           pa.EntriesCount,
			TotalHours:             pa.TotalHours,
		}
		if pa.LeadID != nil {
			v := pa.LeadID.String()
			ar.LeadID = &v
		}
		if pa.Project != nil {
			ar.ProjectName = pa.Project.Name
		}
		detail.Approvals[i] = ar
	}

	for i, h := range t.History {
		hr := HistoryResponse{
			Action:       h.Action,
			ApproverRole: h.ApproverRole,
			ApproverID:   h.ApproverID.String(),
			StatusBefore: h.StatusBefore,
			StatusAfter:  h.StatusAfter,
			Reason:       h.Reason,
			CreatedAt:    h.CreatedAt.Format(time.RFC3339),
		}
		if h.ProjectID != nil {
			v := h.ProjectID.String()
			hr.ProjectID = &v
		}
		detail.History[i] = hr
	}

	return detail
}
