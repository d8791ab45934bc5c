package assignments

import (
	"context"
	"errors"
	"fmt"

	"github.com/haulpoint/fleetops-backend/internal/catalog"
	"github.com/haulpoint/fleetops-backend/pkg/db/models"
	pkgerrors "github.com/haulpoint/fleetops-backend/pkg/errors"
	"github.com/haulpoint/fleetops-backend/pkg/logger"
	"github.com/haulpoint/fleetops-backend/pkg/metrics"
	"github.com/haulpoint/fleetops-backend/pkg/telematics"
	"gorm.io/gorm"
)

// DefaultTemplateCategory is the catalog category instantiated per binding.
const DefaultTemplateCategory = "per-device"

type bindingsRepository interface {
	InsertBinding(ctx context.Context, binding *models.Binding) error
	ActiveBindingExists(ctx context.Context, deviceID, effectiveZoneID int64) (bool, error)
	DeleteBindingsByDeviceZone(ctx context.Context, deviceID, effectiveZoneID int64) (int64, error)
	ListBindingsByOperation(ctx context.Context, operationID *int64) ([]BindingRow, error)
	MarkBindingCompleted(ctx context.Context, bindingID int64) (bool, error)
	InsertCalculatorLinks(ctx context.Context, links []models.CalculatorLink) error
	CalculatorHandlesByDeviceZone(ctx context.Context, deviceID, effectiveZoneID int64) ([]string, error)
	DeleteCalculatorLinksByDeviceZone(ctx context.Context, deviceID, effectiveZoneID int64) error
}

type fleetRepository interface {
	FindDeviceByID(ctx context.Context, id int64) (*models.Device, error)
	FindOperationByID(ctx context.Context, id int64) (*models.Operation, error)
	FindZoneByID(ctx context.Context, id int64) (*models.Zone, error)
}

type templateCatalog interface {
	TemplatesForCategory(category string) ([]catalog.Template, error)
	LoadConfig(filePath string) (map[string]any, error)
}

type remoteGateway interface {
	AssignGeofence(ctx context.Context, remoteDeviceID, remoteGeofenceID string) error
	UnassignGeofence(ctx context.Context, remoteDeviceID, remoteGeofenceID string) error
	CreateCalculator(ctx context.Context, cfg map[string]any) (*telematics.Calculator, error)
	DeleteCalculator(ctx context.Context, calculatorID string) error
	BindCalculatorToDevice(ctx context.Context, calculatorID, remoteDeviceID string) error
}

type positionResolver interface {
	LastKnown(ctx context.Context, remoteDeviceIDs []string) (map[string]telematics.Position, error)
}

// Service exposes the binding lifecycle: creation and teardown sagas plus the
// read operations the HTTP layer maps onto.
type Service interface {
	CreateBinding(ctx context.Context, input CreateBindingInput) (*models.Binding, error)
	DeleteBinding(ctx context.Context, deviceID, effectiveZoneID int64) error
	ListBindings(ctx context.Context, operationID *int64) ([]BindingView, error)
	MarkCompleted(ctx context.Context, bindingID int64) (bool, error)
}

type service struct {
	repo      bindingsRepository
	fleet     fleetRepository
	templates templateCatalog
	gateway   remoteGateway
	positions positionResolver
	logg      *logger.Logger
	metrics   *metrics.BindingMetrics
	category  string
}

// NewService builds the assignment orchestrator. Metrics may be nil.
func NewService(repo bindingsRepository, fleet fleetRepository, templates templateCatalog, gateway remoteGateway, positions positionResolver, logg *logger.Logger, bindingMetrics *metrics.BindingMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("bindings repository required")
	}
	if fleet == nil {
		return nil, fmt.Errorf("fleet repository required")
	}
	if templates == nil {
		return nil, fmt.Errorf("template catalog required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("remote gateway required")
	}
	if positions == nil {
		return nil, fmt.Errorf("position resolver required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:      repo,
		fleet:     fleet,
		templates: templates,
		gateway:   gateway,
		positions: positions,
		logg:      logg,
		metrics:   bindingMetrics,
		category:  DefaultTemplateCategory,
	}, nil
}

// effectiveZone is the resolved target of a binding: an explicit zone or the
// operation itself when the device is bound at operation level.
type effectiveZone struct {
	id               int64
	name             string
	remoteGeofenceID string
	namePrefix       string
}

// CreateBinding inserts the local binding first, then best-effort provisions
// the remote geofence assignment and one calculator per catalog template.
// Remote failures degrade the binding instead of aborting it; only missing
// core entities abort.
func (s *service) CreateBinding(ctx context.Context, input CreateBindingInput) (*models.Binding, error) {
	ctx = s.logg.WithDeviceID(ctx, input.DeviceID)
	ctx = s.logg.WithOperationID(ctx, input.OperationID)

	device, err := s.fleet.FindDeviceByID(ctx, input.DeviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "device not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving device")
	}

	operation, err := s.fleet.FindOperationByID(ctx, input.OperationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "operation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving operation")
	}

	zone, err := s.resolveEffectiveZone(ctx, input.ZoneID, operation)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ActiveBindingExists(ctx, input.DeviceID, zone.id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking active bindings")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "device already has an active binding for this zone")
	}

	binding := &models.Binding{
		DeviceID:        input.DeviceID,
		OperationID:     input.OperationID,
		EffectiveZoneID: zone.id,
	}
	if err := s.repo.InsertBinding(ctx, binding); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "inserting binding")
	}

	ctx = s.logg.WithFields(ctx, map[string]any{"binding_id": binding.ID, "effective_zone_id": zone.id})

	s.provisionGeofence(ctx, device, zone)
	created, attempted := s.provisionCalculators(ctx, device, operation, zone)

	if len(created) > 0 {
		if err := s.repo.InsertCalculatorLinks(ctx, created); err != nil {
			// The remote calculators exist but the bookkeeping write failed;
			// the reconcile job picks these up as unlinked remote resources.
			s.logg.Error(ctx, "persisting calculator links failed", err)
		}
	}

	s.metrics.IncCreated(createOutcome(len(created), attempted))
	return binding, nil
}

// resolveEffectiveZone loads the zone row, falling back to the operation when
// the id addresses the operation itself.
func (s *service) resolveEffectiveZone(ctx context.Context, zoneID *int64, operation *models.Operation) (effectiveZone, error) {
	if zoneID == nil || *zoneID == operation.ID {
		return effectiveZone{
			id:               operation.ID,
			name:             operation.Name,
			remoteGeofenceID: operation.RemoteGeofenceID,
			namePrefix:       "OP",
		}, nil
	}

	zone, err := s.fleet.FindZoneByID(ctx, *zoneID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return effectiveZone{}, pkgerrors.New(pkgerrors.CodeNotFound, "effective zone not found")
		}
		return effectiveZone{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving zone")
	}

	return effectiveZone{
		id:               zone.ID,
		name:             zone.Name,
		remoteGeofenceID: zone.RemoteGeofenceID,
		namePrefix:       zone.Kind.NamePrefix(),
	}, nil
}

// provisionGeofence assigns the device to the zone's geofence when both remote
// identifiers exist. Anything short of that leaves the binding degraded, never
// failed.
func (s *service) provisionGeofence(ctx context.Context, device *models.Device, zone effectiveZone) {
	if device.RemoteDeviceID == "" || zone.remoteGeofenceID == "" {
		s.logg.Warn(ctx, "binding created without geofence enforcement, remote identifier missing")
		s.metrics.IncDegraded()
		return
	}

	if err := s.gateway.AssignGeofence(ctx, device.RemoteDeviceID, zone.remoteGeofenceID); err != nil {
		s.logg.Error(ctx, "assigning geofence failed, binding continues degraded", err)
		s.metrics.IncDegraded()
	}
}

// provisionCalculators instantiates one calculator per catalog template,
// sequentially so synthesized names and diagnostics stay deterministic. A
// failing template never aborts the others. Returns the links for the
// calculators that were both created and bound, plus how many templates were
// attempted.
func (s *service) provisionCalculators(ctx context.Context, device *models.Device, operation *models.Operation, zone effectiveZone) ([]models.CalculatorLink, int) {
	if device.RemoteDeviceID == "" {
		s.logg.Warn(ctx, "skipping calculator provisioning, device has no remote identifier")
		return nil, 0
	}

	templates, err := s.templates.TemplatesForCategory(s.category)
	if err != nil {
		s.logg.Error(ctx, "loading template catalog failed, no calculators provisioned", err)
		return nil, 0
	}

	var links []models.CalculatorLink
	for _, tpl := range templates {
		tctx := s.logg.WithFields(ctx, map[string]any{"template_id": tpl.ID, "template_name": tpl.Name})

		cfg, err := s.templates.LoadConfig(tpl.FilePath)
		if err != nil {
			s.logg.Error(tctx, "loading template config failed, skipping template", err)
			s.metrics.IncCalculatorFailed()
			continue
		}

		cfg = catalog.Sanitize(cfg)
		cfg["name"] = synthesizeCalculatorName(zone.namePrefix, device.Name, operation.Name, zone.name, tpl.Name)

		calculator, err := s.gateway.CreateCalculator(tctx, cfg)
		if err != nil {
			s.logg.Error(tctx, "creating calculator failed, skipping template", err)
			s.metrics.IncCalculatorFailed()
			continue
		}

		if err := s.gateway.BindCalculatorToDevice(tctx, calculator.ID, device.RemoteDeviceID); err != nil {
			// The unbound calculator is left remote-side for the reconcile
			// job; no link row is written for it.
			s.logg.Error(tctx, "binding calculator to device failed, skipping template", err)
			s.metrics.IncCalculatorFailed()
			continue
		}

		links = append(links, models.CalculatorLink{
			RemoteCalculatorID: calculator.ID,
			DeviceID:           device.ID,
			RemoteDeviceID:     device.RemoteDeviceID,
			OperationID:        operation.ID,
			EffectiveZoneID:    zone.id,
		})
		s.metrics.IncCalculatorCreated()
	}
	return links, len(templates)
}

// DeleteBinding clears the local rows first and best-effort deprovisions the
// remote side. Remote failures are logged, never re-raised; a repeated call is
// safe because remote-not-found counts as already done.
func (s *service) DeleteBinding(ctx context.Context, deviceID, effectiveZoneID int64) error {
	ctx = s.logg.WithDeviceID(ctx, deviceID)
	ctx = s.logg.WithFields(ctx, map[string]any{"effective_zone_id": effectiveZoneID})

	device := s.lookupDevice(ctx, deviceID)
	remoteGeofenceID := s.lookupGeofence(ctx, effectiveZoneID)

	deleted, err := s.repo.DeleteBindingsByDeviceZone(ctx, deviceID, effectiveZoneID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting bindings")
	}
	if deleted == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "no binding found for device and zone")
	}

	if device != nil && device.RemoteDeviceID != "" && remoteGeofenceID != "" {
		if err := s.gateway.UnassignGeofence(ctx, device.RemoteDeviceID, remoteGeofenceID); err != nil {
			s.logg.Error(ctx, "unassigning geofence failed, local unbind proceeds", err)
		}
	}

	handles, err := s.repo.CalculatorHandlesByDeviceZone(ctx, deviceID, effectiveZoneID)
	if err != nil {
		s.logg.Error(ctx, "listing calculator links failed, remote calculators may leak", err)
	}
	for _, handle := range handles {
		if err := s.gateway.DeleteCalculator(ctx, handle); err != nil {
			if pkgerrors.HasCode(err, pkgerrors.CodeRemoteNotFound) {
				continue
			}
			s.logg.Error(s.logg.WithField(ctx, "calculator_id", handle), "deleting remote calculator failed", err)
			s.metrics.IncRemoteDeleteFailed()
		}
	}

	// Local bookkeeping is cleared even when remote deletes failed; leaked
	// remote calculators are swept by the reconcile job.
	if err := s.repo.DeleteCalculatorLinksByDeviceZone(ctx, deviceID, effectiveZoneID); err != nil {
		s.logg.Error(ctx, "deleting calculator links failed", err)
	}

	s.metrics.IncDeleted()
	return nil
}

func (s *service) lookupDevice(ctx context.Context, deviceID int64) *models.Device {
	device, err := s.fleet.FindDeviceByID(ctx, deviceID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logg.Error(ctx, "resolving device for teardown failed", err)
		}
		return nil
	}
	return device
}

// lookupGeofence resolves the remote geofence for an effective zone id,
// checking the zones relation first and the operations relation second.
// Teardown proceeds without a geofence when neither resolves.
func (s *service) lookupGeofence(ctx context.Context, effectiveZoneID int64) string {
	zone, err := s.fleet.FindZoneByID(ctx, effectiveZoneID)
	if err == nil {
		return zone.RemoteGeofenceID
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logg.Error(ctx, "resolving zone for teardown failed", err)
		return ""
	}

	operation, err := s.fleet.FindOperationByID(ctx, effectiveZoneID)
	if err == nil {
		return operation.RemoteGeofenceID
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logg.Error(ctx, "resolving operation for teardown failed", err)
	}
	return ""
}

// ListBindings returns bindings with joined display names, enriched with each
// device's last-known position. Position lookup failures degrade the listing
// instead of failing it.
func (s *service) ListBindings(ctx context.Context, operationID *int64) ([]BindingView, error) {
	rows, err := s.repo.ListBindingsByOperation(ctx, operationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing bindings")
	}

	seen := map[string]struct{}{}
	var remoteIDs []string
	for _, row := range rows {
		if row.RemoteDeviceID == "" {
			continue
		}
		if _, ok := seen[row.RemoteDeviceID]; ok {
			continue
		}
		seen[row.RemoteDeviceID] = struct{}{}
		remoteIDs = append(remoteIDs, row.RemoteDeviceID)
	}

	var positions map[string]telematics.Position
	if len(remoteIDs) > 0 {
		positions, err = s.positions.LastKnown(ctx, remoteIDs)
		if err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "resolving positions failed, listing without them")
			positions = nil
		}
	}

	views := make([]BindingView, 0, len(rows))
	for _, row := range rows {
		view := BindingView{BindingRow: row}
		if pos, ok := positions[row.RemoteDeviceID]; ok {
			p := pos
			view.Position = &p
		}
		views = append(views, view)
	}
	return views, nil
}

// MarkCompleted stamps the binding's completion marker. Returns false when the
// binding does not exist or was already completed.
func (s *service) MarkCompleted(ctx context.Context, bindingID int64) (bool, error) {
	ok, err := s.repo.MarkBindingCompleted(ctx, bindingID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marking binding completed")
	}
	return ok, nil
}

func createOutcome(created, attempted int) string {
	switch {
	case created == 0:
		return "none"
	case created == attempted:
		return "full"
	default:
		return "partial"
	}
}

// synthesizeCalculatorName builds the human-readable remote resource name,
// truncated to the platform's length limit.
func synthesizeCalculatorName(prefix, deviceName, operationName, zoneName, templateName string) string {
	name := fmt.Sprintf("%s %s @ %s/%s - %s", prefix, deviceName, operationName, zoneName, templateName)
	runes := []rune(name)
	if len(runes) > telematics.CalculatorNameMaxLen {
		return string(runes[:telematics.CalculatorNameMaxLen])
	}
	return name
}
