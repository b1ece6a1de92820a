package dispatch

import (
	"context"
	"fmt"

	"github.com/sankalpm/applybot/internal/domain/models"
	"github.com/sankalpm/applybot/internal/services"
	log "github.com/sirupsen/logrus"
)

// DryRun is the default dispatcher: it records what would have been
// submitted without driving any browser. Real submission backends plug in
// behind the same interface.
type DryRun struct{}

func NewDryRun() *DryRun {
	return &DryRun{}
}

func (d *DryRun) Apply(_ context.Context, job *models.Job, _ *models.UserProfile,
	_ services.Materials) (services.DispatchResult, error) {

	log.Infof("[DRY RUN] would apply to %v at %v (%v)", job.Title, job.Company, job.URL)

	return services.DispatchResult{
		Success: true,
		Method:  models.MethodDryRun,
		Message: fmt.Sprintf("dry run: %s at %s", job.Title, job.Company),
	}, nil
}
