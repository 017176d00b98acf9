package project

import (
	"context"
	"database/sql"
	"errors"

	projecterrors "go-timesheet/internal/project/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=project_service.go -destination=mock/project_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateProjectRequest) (ProjectResponse, error)
	GetAll(ctx context.Context, companyID string) ([]ProjectResponse, error)
	GetByID(ctx context.Context, companyID, id string) (ProjectResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateProjectRequest) (ProjectResponse, error)
	Delete(ctx context.Context, companyID, id string) error
	CreateTask(ctx context.Context, companyID, projectID string, req CreateTaskRequest) (TaskResponse, error)
}

type service struct {
	db   *sql.DB
	repo Repository
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateProjectRequest) (ProjectResponse, error) {
	managerID, err := uuid.Parse(req.ManagerID)
	if err != nil {
		return ProjectResponse{}, projecterrors.ErrInvalidManagerID
	}

	var leadID *uuid.UUID
	if req.LeadID != nil {
		parsed, err := uuid.Parse(*req.LeadID)
		if err != nil {
			return ProjectResponse{}, projecterrors.ErrInvalidLeadID
		}
		leadID = &parsed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ProjectResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if existing, err := qtx.FindByCode(ctx, companyID, req.Code); err == nil && existing != nil && existing.ID != uuid.Nil {
		return ProjectResponse{}, projecterrors.ErrProjectCodeExists
	}

	p := &Project{
		ID:        uuid.New(),
		CompanyID: uuid.MustParse(companyID),
		Name:      req.Name,
		Code:      req.Code,
		LeadID:    leadID,
		ManagerID: managerID,
		IsActive:  true,
	}

	if err := qtx.Create(ctx, p); err != nil {
		return ProjectResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return ProjectResponse{}, err
	}

	return mapToResponse(*p), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]ProjectResponse, error) {
	projects, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	resp := make([]ProjectResponse, len(projects))
	for i, p := range projects {
		resp[i] = mapToResponse(p)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (ProjectResponse, error) {
	p, err := s.findProject(ctx, companyID, id)
	if err != nil {
		return ProjectResponse{}, err
	}
	return mapToResponse(*p), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateProjectRequest) (ProjectResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ProjectResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := s.findProjectWith(ctx, qtx, companyID, id)
	if err != nil {
		return ProjectResponse{}, err
	}

	if req.Name != "" {
		p.Name = req.Name
	}
	if req.ManagerID != "" {
		managerID, err := uuid.Parse(req.ManagerID)
		if err != nil {
			return ProjectResponse{}, projecterrors.ErrInvalidManagerID
		}
		p.ManagerID = managerID
	}
	if req.LeadID != nil {
		leadID, err := uuid.Parse(*req.LeadID)
		if err != nil {
			return ProjectResponse{}, projecterrors.ErrInvalidLeadID
		}
		p.LeadID = &leadID
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if err := qtx.Update(ctx, p); err != nil {
		return ProjectResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return ProjectResponse{}, err
	}

	return mapToResponse(*p), nil
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

func (s *service) CreateTask(ctx context.Context, companyID, projectID string, req CreateTaskRequest) (TaskResponse, error) {
	p, err := s.findProject(ctx, companyID, projectID)
	if err != nil {
		return TaskResponse{}, err
	}

	task := &Task{
		ID:        uuid.New(),
		ProjectID: p.ID,
		Name:      req.Name,
		IsActive:  true,
	}
	if err := s.repo.CreateTask(ctx, task); err != nil {
		return TaskResponse{}, err
	}

	return mapTask(*task), nil
}

func (s *service) findProject(ctx context.Context, companyID, id string) (*Project, error) {
	return s.findProjectWith(ctx, s.repo, companyID, id)
}

func (s *service) findProjectWith(ctx context.Context, repo Repository, companyID, id string) (*Project, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, projecterrors.ErrInvalidProjectID
	}
	p, err := repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, projecterrors.ErrProjectNotFound
		}
		return nil, err
	}
	return p, nil
}

func mapToResponse(p Project) ProjectResponse {
	resp := ProjectResponse{
		ID:        p.ID.String(),
		CompanyID: p.CompanyID.String(),
		Name:      p.Name,
		Code:      p.Code,
		ManagerID: p.ManagerID.String(),
		IsActive:  p.IsActive,
	}
	if p.LeadID != nil {
		v := p.LeadID.String()
		resp.LeadID = &v
	}
	for _, task := range p.Tasks {
		resp.Tasks = append(resp.Tasks, mapTask(task))
	}
	return resp
}

func mapTask(task Task) TaskResponse {
	return TaskResponse{
		ID:        task.ID.String(),
		ProjectID: task.ProjectID.String(),
		Name:      task.Name,
		IsActive:  task.IsActive,
	}
}
