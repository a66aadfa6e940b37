package services

import (
	"errors"
	"fmt"

	"github.com/haaslab/hwtracker/backend/internal/models"
	"gorm.io/gorm"
)

// Business-rule failures for checkout/checkin. Handlers match these with
// errors.Is; wrapped messages carry the offending quantities.
var (
	ErrInvalidInput             = errors.New("invalid input")
	ErrHardwareNotFound         = errors.New("hardware set not found")
	ErrProjectNotFound          = errors.New("project not found")
	ErrNotAMember               = errors.New("user is not a member of this project")
	ErrCapacityExceeded         = errors.New("not enough hardware available for this project")
	ErrInsufficientProjectUsage = errors.New("insufficient project usage")
	ErrInsufficientUserUsage    = errors.New("insufficient user usage")
)

// HardwareService owns the hardware catalog and the usage ledger: idempotent
// capacity provisioning, availability projection, and the checkout/checkin
// counter updates with their invariants.
type HardwareService struct {
	db       *gorm.DB
	projects *ProjectService
}

func NewHardwareService(db *gorm.DB) *HardwareService {
	return &HardwareService{
		db:       db,
		projects: NewProjectService(db),
	}
}

// ready guards every operation against the degraded no-database mode.
func (s *HardwareService) ready() (*gorm.DB, error) {
	if s.db == nil {
		return nil, models.ErrNotReady
	}
	return s.db, nil
}

// HardwareView is the externally visible projection of one hardware set.
type HardwareView struct {
	Name      string `json:"name"`
	Capacity  int64  `json:"capacity"`
	Available int64  `json:"available"`
}

type CheckoutRequest struct {
	Name      string `json:"name"`
	Amount    int64  `json:"amount"`
	ProjectID string `json:"project_id"`
	Username  string `json:"username"`
}

type CheckinRequest struct {
	Name      string `json:"name"`
	Amount    int64  `json:"amount"`
	ProjectID string `json:"project_id"`
	Username  string `json:"username"`
}

// Provision creates a hardware set if absent. First writer wins: an existing
// row keeps its capacity and stored available counter no matter what a later
// seed passes.
func (s *HardwareService) Provision(name string, capacity int64) error {
	db, err := s.ready()
	if err != nil {
		return err
	}
	if name == "" || capacity < 0 {
		return fmt.Errorf("%w: provision needs a name and non-negative capacity", ErrInvalidInput)
	}

	avail := capacity
	hw := models.HardwareSet{Name: name, Capacity: capacity, Available: &avail}
	return db.Where("name = ?", name).FirstOrCreate(&hw).Error
}

// GetByName returns a hardware set by its unique name.
func (s *HardwareService) GetByName(name string) (*models.HardwareSet, error) {
	db, err := s.ready()
	if err != nil {
		return nil, err
	}

	var hw models.HardwareSet
	if err := db.Where("name = ?", name).First(&hw).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHardwareNotFound
		}
		return nil, err
	}
	return &hw, nil
}

// List returns all hardware sets. Order is whatever the store gives back.
func (s *HardwareService) List() ([]models.HardwareSet, error) {
	db, err := s.ready()
	if err != nil {
		return nil, err
	}

	var sets []models.HardwareSet
	if err := db.Find(&sets).Error; err != nil {
		return nil, err
	}
	return sets, nil
}

// ListAvailability projects every catalog set into {name, capacity, available}.
//
// Two availability paths exist and are intentionally not unified. With a
// project ID, available derives from that project's usage counter. Without
// one, the catalog's stored available column is served as-is (NULL falls
// back to capacity); checkout never decrements that column, so the two
// figures can disagree for callers that omit the project.
func (s *HardwareService) ListAvailability(projectID string) ([]HardwareView, error) {
	db, err := s.ready()
	if err != nil {
		return nil, err
	}

	var sets []models.HardwareSet
	if err := db.Find(&sets).Error; err != nil {
		return nil, err
	}

	views := make([]HardwareView, 0, len(sets))

	if projectID == "" {
		for _, hw := range sets {
			avail := hw.Capacity
			if hw.Available != nil {
				avail = *hw.Available
			}
			views = append(views, HardwareView{Name: hw.Name, Capacity: hw.Capacity, Available: avail})
		}
		return views, nil
	}

	// A missing project reads as zero usage, same as the legacy behavior.
	usage := map[string]int64{}
	var project models.Project
	if err := db.Where("project_id = ?", projectID).First(&project).Error; err == nil {
		var rows []models.ProjectUsage
		if err := db.Where("project_ref = ?", project.ID).Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, row := range rows {
			usage[row.HardwareName] = row.Used
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	for _, hw := range sets {
		views = append(views, HardwareView{
			Name:      hw.Name,
			Capacity:  hw.Capacity,
			Available: clampAvailable(hw.Capacity, usage[hw.Name]),
		})
	}
	return views, nil
}

// AvailableFor computes a single set's availability for one project.
func (s *HardwareService) AvailableFor(name, projectID string) (int64, error) {
	db, err := s.ready()
	if err != nil {
		return 0, err
	}

	hw, err := s.GetByName(name)
	if err != nil {
		return 0, err
	}

	if projectID == "" {
		if hw.Available != nil {
			return *hw.Available, nil
		}
		return hw.Capacity, nil
	}

	var project models.Project
	if err := db.Where("project_id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrProjectNotFound
		}
		return 0, err
	}

	used := int64(0)
	var pu models.ProjectUsage
	err = db.Where("project_ref = ? AND hardware_name = ?", project.ID, hw.Name).First(&pu).Error
	if err == nil {
		used = pu.Used
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	return clampAvailable(hw.Capacity, used), nil
}

// Checkout reserves amount units of a set against a project, attributed to
// the requesting member. Both usage counters move in one transaction; the
// capacity bound is enforced by the conditional UPDATE itself, so two
// concurrent checkouts cannot oversell the set.
func (s *HardwareService) Checkout(req *CheckoutRequest) (*HardwareView, error) {
	db, err := s.ready()
	if err != nil {
		return nil, err
	}
	if err := validateLedgerRequest(req.Name, req.Amount, req.ProjectID, req.Username); err != nil {
		return nil, err
	}

	hw, project, err := s.resolve(db, req.Name, req.ProjectID, req.Username)
	if err != nil {
		return nil, err
	}

	var newUsed int64
	err = db.Transaction(func(tx *gorm.DB) error {
		pu := models.ProjectUsage{ProjectRef: project.ID, HardwareName: hw.Name}
		if err := tx.Where("project_ref = ? AND hardware_name = ?", project.ID, hw.Name).
			FirstOrCreate(&pu).Error; err != nil {
			return err
		}
		uu := models.UserUsage{ProjectRef: project.ID, Username: req.Username, HardwareName: hw.Name}
		if err := tx.Where("project_ref = ? AND username = ? AND hardware_name = ?",
			project.ID, req.Username, hw.Name).FirstOrCreate(&uu).Error; err != nil {
			return err
		}

		// Increment only if the result stays within capacity.
		res := tx.Model(&models.ProjectUsage{}).
			Where("project_ref = ? AND hardware_name = ? AND used + ? <= ?",
				project.ID, hw.Name, req.Amount, hw.Capacity).
			Update("used", gorm.Expr("used + ?", req.Amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %d of %d in use, requested %d",
				ErrCapacityExceeded, pu.Used, hw.Capacity, req.Amount)
		}

		if err := tx.Model(&models.UserUsage{}).
			Where("project_ref = ? AND username = ? AND hardware_name = ?",
				project.ID, req.Username, hw.Name).
			Update("used", gorm.Expr("used + ?", req.Amount)).Error; err != nil {
			return err
		}

		newUsed, err = projectUsed(tx, project.ID, hw.Name)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &HardwareView{Name: hw.Name, Capacity: hw.Capacity, Available: clampAvailable(hw.Capacity, newUsed)}, nil
}

// Checkin releases amount units previously drawn by the same member. A user
// cannot return units a teammate checked out: both the project counter and
// that user's counter must cover the amount.
func (s *HardwareService) Checkin(req *CheckinRequest) (*HardwareView, error) {
	db, err := s.ready()
	if err != nil {
		return nil, err
	}
	if err := validateLedgerRequest(req.Name, req.Amount, req.ProjectID, req.Username); err != nil {
		return nil, err
	}

	hw, project, err := s.resolve(db, req.Name, req.ProjectID, req.Username)
	if err != nil {
		return nil, err
	}

	var newUsed int64
	err = db.Transaction(func(tx *gorm.DB) error {
		curProject, err := projectUsed(tx, project.ID, hw.Name)
		if err != nil {
			return err
		}
		curUser, err := userUsed(tx, project.ID, req.Username, hw.Name)
		if err != nil {
			return err
		}

		if curProject < req.Amount {
			return fmt.Errorf("%w: project has only %d units checked out from %s",
				ErrInsufficientProjectUsage, curProject, hw.Name)
		}
		if curUser < req.Amount {
			return fmt.Errorf("%w: user has only %d units checked out from %s",
				ErrInsufficientUserUsage, curUser, hw.Name)
		}

		res := tx.Model(&models.ProjectUsage{}).
			Where("project_ref = ? AND hardware_name = ? AND used >= ?", project.ID, hw.Name, req.Amount).
			Update("used", gorm.Expr("used - ?", req.Amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost a race with a concurrent check-in.
			return fmt.Errorf("%w: project has only %d units checked out from %s",
				ErrInsufficientProjectUsage, curProject, hw.Name)
		}

		res = tx.Model(&models.UserUsage{}).
			Where("project_ref = ? AND username = ? AND hardware_name = ? AND used >= ?",
				project.ID, req.Username, hw.Name, req.Amount).
			Update("used", gorm.Expr("used - ?", req.Amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: user has only %d units checked out from %s",
				ErrInsufficientUserUsage, curUser, hw.Name)
		}

		newUsed, err = projectUsed(tx, project.ID, hw.Name)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &HardwareView{Name: hw.Name, Capacity: hw.Capacity, Available: clampAvailable(hw.Capacity, newUsed)}, nil
}

// resolve runs the shared checkout/checkin preconditions in order: set
// exists, project exists, requester is a member.
func (s *HardwareService) resolve(db *gorm.DB, name, projectID, username string) (*models.HardwareSet, *models.Project, error) {
	hw, err := s.GetByName(name)
	if err != nil {
		return nil, nil, err
	}

	var project models.Project
	if err := db.Where("project_id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrProjectNotFound
		}
		return nil, nil, err
	}

	member, err := s.projects.IsMember(&project, username)
	if err != nil {
		return nil, nil, err
	}
	if !member {
		return nil, nil, ErrNotAMember
	}

	return hw, &project, nil
}

func validateLedgerRequest(name string, amount int64, projectID, username string) error {
	if name == "" || amount <= 0 || projectID == "" || username == "" {
		return fmt.Errorf("%w: provide name, positive amount, project_id, and username", ErrInvalidInput)
	}
	return nil
}

// projectUsed reads a project's counter for one set; a missing row is zero.
func projectUsed(tx *gorm.DB, projectRef uint, hardwareName string) (int64, error) {
	var pu models.ProjectUsage
	err := tx.Where("project_ref = ? AND hardware_name = ?", projectRef, hardwareName).First(&pu).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	return pu.Used, err
}

// userUsed reads one member's counter for one set; a missing row is zero.
func userUsed(tx *gorm.DB, projectRef uint, username, hardwareName string) (int64, error) {
	var uu models.UserUsage
	err := tx.Where("project_ref = ? AND username = ? AND hardware_name = ?",
		projectRef, username, hardwareName).First(&uu).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	return uu.Used, err
}

func clampAvailable(capacity, used int64) int64 {
	if used >= capacity {
		return 0
	}
	return capacity - used
}
