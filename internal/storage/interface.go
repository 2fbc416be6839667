package storage

import (
	"time"

	"github.com/jgoncalves802/visualplan/internal/models"
)

// Settings is the stored project-level configuration.
type Settings struct {
	Name           string          `json:"name"`
	Start          time.Time       `json:"start"`
	Unit           models.WorkUnit `json:"unit"`
	CalendarID     string          `json:"calendar_id"`
	AutoScheduling bool            `json:"auto_scheduling"`
}

// SnapshotInfo describes a stored schedule snapshot.
type SnapshotInfo struct {
	Name       string    `json:"name"`
	ComputedAt time.Time `json:"computed_at"`
}

// Provider is the persistence boundary for one project. The engine never
// touches it; the CLI loads records from here, feeds them to the engine,
// and writes published results back.
type Provider interface {
	Init() error
	Load() error
	Close() error

	GetSettings() (Settings, error)
	SaveSettings(Settings) error

	SaveActivity(models.Activity) error
	GetActivity(id string) (models.Activity, error)
	GetAllActivities() ([]models.Activity, error)
	DeleteActivity(id string) error

	SaveDependency(models.Dependency) error
	GetAllDependencies() ([]models.Dependency, error)
	DeleteDependency(id string) error

	SaveCalendar(models.Calendar) error
	GetAllCalendars() ([]models.Calendar, error)

	SaveSnapshot(name string, result models.ScheduleResult) error
	GetSnapshot(name string) (models.ScheduleResult, error)
	ListSnapshots() ([]SnapshotInfo, error)
}

// GetProject assembles a full project record from a loaded provider.
func GetProject(p Provider) (models.Project, error) {
	settings, err := p.GetSettings()
	if err != nil {
		return models.Project{}, err
	}
	activities, err := p.GetAllActivities()
	if err != nil {
		return models.Project{}, err
	}
	dependencies, err := p.GetAllDependencies()
	if err != nil {
		return models.Project{}, err
	}
	calendars, err := p.GetAllCalendars()
	if err != nil {
		return models.Project{}, err
	}
	return models.Project{
		Name:           settings.Name,
		Start:          settings.Start,
		Unit:           settings.Unit,
		CalendarID:     settings.CalendarID,
		AutoScheduling: settings.AutoScheduling,
		Activities:     activities,
		Dependencies:   dependencies,
		Calendars:      calendars,
	}, nil
}
