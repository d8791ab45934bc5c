package jobs

import (
	"context"
	"fmt"

	"github.com/haulpoint/fleetops-backend/pkg/db/models"
	pkgerrors "github.com/haulpoint/fleetops-backend/pkg/errors"
	"github.com/haulpoint/fleetops-backend/pkg/logger"
	"github.com/haulpoint/fleetops-backend/pkg/telematics"
	"go.uber.org/multierr"
)

type reconcileLinksRepo interface {
	ListCalculatorLinks(ctx context.Context) ([]models.CalculatorLink, error)
}

type reconcileFleetRepo interface {
	ListDevicesWithRemoteID(ctx context.Context) ([]models.Device, error)
}

type reconcileGateway interface {
	ListDeviceCalculators(ctx context.Context, remoteDeviceID string) ([]telematics.Calculator, error)
	DeleteCalculator(ctx context.Context, calculatorID string) error
}

// ReconcileCalculatorsJobParams configure the orphan-calculator sweep.
type ReconcileCalculatorsJobParams struct {
	Logger  *logger.Logger
	Links   reconcileLinksRepo
	Fleet   reconcileFleetRepo
	Gateway reconcileGateway
}

// NewReconcileCalculatorsJob builds the job that deletes remote calculators
// with no backing link row. Creation and teardown leak remote calculators when
// a bind or delete call fails mid-saga; this sweep is the cleanup path.
func NewReconcileCalculatorsJob(params ReconcileCalculatorsJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Links == nil {
		return nil, fmt.Errorf("links repository required")
	}
	if params.Fleet == nil {
		return nil, fmt.Errorf("fleet repository required")
	}
	if params.Gateway == nil {
		return nil, fmt.Errorf("gateway required")
	}
	return &reconcileCalculatorsJob{
		logg:    params.Logger,
		links:   params.Links,
		fleet:   params.Fleet,
		gateway: params.Gateway,
	}, nil
}

type reconcileCalculatorsJob struct {
	logg    *logger.Logger
	links   reconcileLinksRepo
	fleet   reconcileFleetRepo
	gateway reconcileGateway
}

func (j *reconcileCalculatorsJob) Name() string { return "reconcile-calculators" }

func (j *reconcileCalculatorsJob) Run(ctx context.Context) error {
	links, err := j.links.ListCalculatorLinks(ctx)
	if err != nil {
		return fmt.Errorf("listing calculator links: %w", err)
	}
	linked := make(map[string]struct{}, len(links))
	for _, link := range links {
		linked[link.RemoteCalculatorID] = struct{}{}
	}

	devices, err := j.fleet.ListDevicesWithRemoteID(ctx)
	if err != nil {
		return fmt.Errorf("listing devices: %w", err)
	}

	var swept, failed int
	var errs error
	for _, device := range devices {
		calculators, err := j.gateway.ListDeviceCalculators(ctx, device.RemoteDeviceID)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("listing calculators for device %d: %w", device.ID, err))
			continue
		}

		for _, calculator := range calculators {
			if _, ok := linked[calculator.ID]; ok {
				continue
			}
			if err := j.gateway.DeleteCalculator(ctx, calculator.ID); err != nil {
				if pkgerrors.HasCode(err, pkgerrors.CodeRemoteNotFound) {
					continue
				}
				failed++
				errs = multierr.Append(errs, fmt.Errorf("deleting orphan calculator %s: %w", calculator.ID, err))
				continue
			}
			swept++
		}
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"devices_checked": len(devices),
		"links_known":     len(links),
		"orphans_swept":   swept,
		"deletes_failed":  failed,
	})
	j.logg.Info(logCtx, "calculator reconciliation complete")
	return errs
}
