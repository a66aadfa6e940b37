package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/haaslab/hwtracker/backend/internal/models"
	"gorm.io/gorm"
)

var ErrProjectExists = errors.New("project id already exists")

// ProjectService manages projects and membership. Its IsMember read path is
// the only membership question the hardware ledger ever asks.
type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

func (s *ProjectService) ready() (*gorm.DB, error) {
	if s.db == nil {
		return nil, models.ErrNotReady
	}
	return s.db, nil
}

type CreateProjectRequest struct {
	Username    string `json:"username" binding:"required"`
	ProjectID   string `json:"project_id"`
	ProjectName string `json:"project_name" binding:"required"`
}

type JoinProjectRequest struct {
	Username  string `json:"username" binding:"required"`
	ProjectID string `json:"project_id" binding:"required"`
}

// ProjectInfo is the external view of a project: the canonical
// {owner, members} shape plus both usage maps.
type ProjectInfo struct {
	ProjectID     string                      `json:"project_id"`
	ProjectName   string                      `json:"project_name"`
	Owner         string                      `json:"owner"`
	Members       []string                    `json:"members"`
	HardwareUsage map[string]int64            `json:"hardware_usage"`
	UserUsage     map[string]map[string]int64 `json:"user_usage,omitempty"`
}

// Create registers a new project with the creator as owner and sole member.
// When no project_id is supplied one is generated. Zero usage rows are
// seeded for every provisioned hardware set.
func (s *ProjectService) Create(req *CreateProjectRequest) (*ProjectInfo, error) {
	db, err := s.ready()
	if err != nil {
		return nil, err
	}
	if req.Username == "" || req.ProjectName == "" {
		return nil, fmt.Errorf("%w: username and project_name required", ErrInvalidInput)
	}

	projectID := req.ProjectID
	if projectID == "" {
		projectID = uuid.NewString()
	}

	var count int64
	if err := db.Model(&models.Project{}).Where("project_id = ?", projectID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrProjectExists
	}

	project := models.Project{
		ProjectID:   projectID,
		ProjectName: req.ProjectName,
		Owner:       req.Username,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		member := models.ProjectMember{ProjectRef: project.ID, Username: req.Username}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}

		var sets []models.HardwareSet
		if err := tx.Find(&sets).Error; err != nil {
			return err
		}
		for _, hw := range sets {
			usage := models.ProjectUsage{ProjectRef: project.ID, HardwareName: hw.Name, Used: 0}
			if err := tx.Create(&usage).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Info(&project)
}

// GetByProjectID returns a project row by its external identifier.
func (s *ProjectService) GetByProjectID(projectID string) (*models.Project, error) {
	db, err := s.ready()
	if err != nil {
		return nil, err
	}

	var project models.Project
	if err := db.Where("project_id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

// List returns every project in canonical form.
func (s *ProjectService) List() ([]ProjectInfo, error) {
	db, err := s.ready()
	if err != nil {
		return nil, err
	}

	var projects []models.Project
	if err := db.Find(&projects).Error; err != nil {
		return nil, err
	}

	infos := make([]ProjectInfo, 0, len(projects))
	for i := range projects {
		info, err := s.Info(&projects[i])
		if err != nil {
			return nil, err
		}
		infos = append(infos, *info)
	}
	return infos, nil
}

// ListForUser returns the projects a user owns or belongs to.
func (s *ProjectService) ListForUser(username string) ([]ProjectInfo, error) {
	db, err := s.ready()
	if err != nil {
		return nil, err
	}

	sub := db.Model(&models.ProjectMember{}).Select("project_ref").Where("username = ?", username)

	var projects []models.Project
	if err := db.Where("owner = ? OR id IN (?)", username, sub).Find(&projects).Error; err != nil {
		return nil, err
	}

	infos := make([]ProjectInfo, 0, len(projects))
	for i := range projects {
		info, err := s.Info(&projects[i])
		if err != nil {
			return nil, err
		}
		infos = append(infos, *info)
	}
	return infos, nil
}

// Join adds a user to a project's member set. Joining twice is a no-op.
// Legacy projects with no member rows get their owner row materialized
// first, so the record leaves here in canonical shape.
func (s *ProjectService) Join(req *JoinProjectRequest) (*ProjectInfo, error) {
	db, err := s.ready()
	if err != nil {
		return nil, err
	}
	if req.Username == "" || req.ProjectID == "" {
		return nil, fmt.Errorf("%w: username and project_id required", ErrInvalidInput)
	}

	project, err := s.GetByProjectID(req.ProjectID)
	if err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		owner := models.ProjectMember{ProjectRef: project.ID, Username: project.Owner}
		if err := tx.Where("project_ref = ? AND username = ?", project.ID, project.Owner).
			FirstOrCreate(&owner).Error; err != nil {
			return err
		}
		member := models.ProjectMember{ProjectRef: project.ID, Username: req.Username}
		return tx.Where("project_ref = ? AND username = ?", project.ID, req.Username).
			FirstOrCreate(&member).Error
	})
	if err != nil {
		return nil, err
	}

	return s.Info(project)
}

// IsMember reports whether a user may check hardware in or out on behalf of
// a project. The owner is always a member; legacy records without member
// rows therefore fall back to the owner as the sole member.
func (s *ProjectService) IsMember(project *models.Project, username string) (bool, error) {
	if _, err := s.ready(); err != nil {
		return false, err
	}
	if username == project.Owner {
		return true, nil
	}

	var count int64
	err := s.db.Model(&models.ProjectMember{}).
		Where("project_ref = ? AND username = ?", project.ID, username).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// MemberSet returns the canonical member list, owner first.
func (s *ProjectService) MemberSet(project *models.Project) ([]string, error) {
	if _, err := s.ready(); err != nil {
		return nil, err
	}

	var names []string
	err := s.db.Model(&models.ProjectMember{}).
		Where("project_ref = ?", project.ID).
		Order("id").
		Pluck("username", &names).Error
	if err != nil {
		return nil, err
	}

	if len(names) == 0 {
		return []string{project.Owner}, nil
	}

	members := []string{project.Owner}
	for _, n := range names {
		if n != project.Owner {
			members = append(members, n)
		}
	}
	return members, nil
}

// Info assembles the canonical external view of one project.
func (s *ProjectService) Info(project *models.Project) (*ProjectInfo, error) {
	members, err := s.MemberSet(project)
	if err != nil {
		return nil, err
	}

	hardwareUsage := map[string]int64{}
	var usageRows []models.ProjectUsage
	if err := s.db.Where("project_ref = ?", project.ID).Find(&usageRows).Error; err != nil {
		return nil, err
	}
	for _, row := range usageRows {
		hardwareUsage[row.HardwareName] = row.Used
	}

	userUsage := map[string]map[string]int64{}
	var userRows []models.UserUsage
	if err := s.db.Where("project_ref = ?", project.ID).Find(&userRows).Error; err != nil {
		return nil, err
	}
	for _, row := range userRows {
		if userUsage[row.Username] == nil {
			userUsage[row.Username] = map[string]int64{}
		}
		userUsage[row.Username][row.HardwareName] = row.Used
	}

	return &ProjectInfo{
		ProjectID:     project.ProjectID,
		ProjectName:   project.ProjectName,
		Owner:         project.Owner,
		Members:       members,
		HardwareUsage: hardwareUsage,
		UserUsage:     userUsage,
	}, nil
}
