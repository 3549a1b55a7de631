package cull

import (
	"context"

	"github.com/hay-kot/cull/internal/core/config"
	"github.com/hay-kot/cull/internal/core/doctor"
	"github.com/hay-kot/cull/internal/data/db"
)

// DoctorService runs health checks on the cull setup.
type DoctorService struct {
	config *config.Config
	db     *db.DB
}

// NewDoctorService creates a new DoctorService.
func NewDoctorService(cfg *config.Config, database *db.DB) *DoctorService {
	return &DoctorService{
		config: cfg,
		db:     database,
	}
}

// RunChecks executes all doctor checks and returns results.
func (d *DoctorService) RunChecks(ctx context.Context) []doctor.Result {
	checks := []doctor.Check{
		doctor.NewPhotosDirCheck(d.config.Photos.Dir),
		doctor.NewTrashCheck(d.config.DeleteMode(), d.config.Delete.TrashDir),
		doctor.NewTerminalCheck(),
		doctor.NewDatabaseCheck(d.config.DBFile(), d.pingDB),
	}
	return doctor.RunAll(ctx, checks)
}

func (d *DoctorService) pingDB(ctx context.Context) error {
	return d.db.Conn().PingContext(ctx)
}
