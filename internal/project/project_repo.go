package project

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=project_repo.go -destination=mock/project_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, p *Project) error
	FindAllByCompany(ctx context.Context, companyID string) ([]Project, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Project, error)
	FindByCode(ctx context.Context, companyID, code string) (*Project, error)
	Update(ctx context.Context, p *Project) error
	Delete(ctx context.Context, companyID, id string) error

	CreateTask(ctx context.Context, task *Task) error
	FindTasks(ctx context.Context, projectID string) ([]Task, error)

	AddMember(ctx context.Context, m *Member) error
	RemoveMember(ctx context.Context, projectID, userID string) error
	IsMember(ctx context.Context, projectID, userID string) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, p *Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Project, error) {
	var projects []Project
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("name ASC").
		Find(&projects).Error
	return projects, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Project, error) {
	var p Project
	err := r.db.WithContext(ctx).
		Preload("Tasks").
		Where("company_id = ?", companyID).
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *repository) FindByCode(ctx context.Context, companyID, code string) (*Project, error) {
	var p Project
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("code = ?", code).
		First(&p).Error
	return &p, err
}

func (r *repository) Update(ctx context.Context, p *Project) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Delete(&Project{}, "id = ?", id).Error
}

func (r *repository) CreateTask(ctx context.Context, task *Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *repository) FindTasks(ctx context.Context, projectID string) ([]Task, error) {
	var tasks []Task
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("name ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *repository) AddMember(ctx context.Context, m *Member) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *repository) RemoveMember(ctx context.Context, projectID, userID string) error {
	return r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Where("user_id = ?", userID).
		Delete(&Member{}).Error
}

func (r *repository) IsMember(ctx context.Context, projectID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Member{}).
		Where("project_id = ?", projectID).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count > 0, err
}
