package project

type CreateProjectRequest struct {
	Name      string  `json:"name" binding:"required"`
	Code      string  `json:"code" binding:"required"`
	LeadID    *string `json:"lead_id" binding:"omitempty,uuid"`
	ManagerID string  `json:"manager_id" binding:"required,uuid"`
}

type UpdateProjectRequest struct {
	Name      string  `json:"name"`
	LeadID    *string `json:"lead_id" binding:"omitempty,uuid"`
	ManagerID string  `json:"manager_id" binding:"omitempty,uuid"`
	IsActive  *bool   `json:"is_active"`
}

type CreateTaskRequest struct {
	Name string `json:"name" binding:"required"`
}

type TaskResponse struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
	IsActive  bool   `json:"is_active"`
}

type ProjectResponse struct {
	ID        string         `json:"id"`
	CompanyID string         `json:"company_id"`
	Name      string         `json:"name"`
	Code      string         `json:"code"`
	LeadID    *string        `json:"lead_id,omitempty"`
	ManagerID string         `json:"manager_id"`
	IsActive  bool           `json:"is_active"`
	Tasks     []TaskResponse `json:"tasks,omitempty"`
}
