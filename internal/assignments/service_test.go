package assignments

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/haulpoint/fleetops-backend/internal/catalog"
	"github.com/haulpoint/fleetops-backend/pkg/db/models"
	pkgerrors "github.com/haulpoint/fleetops-backend/pkg/errors"
	"github.com/haulpoint/fleetops-backend/pkg/logger"
	"github.com/haulpoint/fleetops-backend/pkg/telematics"
	"gorm.io/gorm"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "assignments-test", Output: io.Discard})
}

type stubRepo struct {
	active          bool
	activeErr       error
	insertErr       error
	inserted        []*models.Binding
	insertedLinks   []models.CalculatorLink
	deleteCount     int64
	deleteErr       error
	handles         []string
	handlesErr      error
	linksDeleted    bool
	rows            []BindingRow
	listErr         error
	markOK          bool
	markErr         error
	markedBindingID int64
}

func (s *stubRepo) InsertBinding(_ context.Context, binding *models.Binding) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	binding.ID = int64(len(s.inserted) + 1)
	s.inserted = append(s.inserted, binding)
	return nil
}

func (s *stubRepo) ActiveBindingExists(context.Context, int64, int64) (bool, error) {
	return s.active, s.activeErr
}

func (s *stubRepo) DeleteBindingsByDeviceZone(context.Context, int64, int64) (int64, error) {
	return s.deleteCount, s.deleteErr
}

func (s *stubRepo) ListBindingsByOperation(context.Context, *int64) ([]BindingRow, error) {
	return s.rows, s.listErr
}

func (s *stubRepo) MarkBindingCompleted(_ context.Context, bindingID int64) (bool, error) {
	s.markedBindingID = bindingID
	return s.markOK, s.markErr
}

func (s *stubRepo) InsertCalculatorLinks(_ context.Context, links []models.CalculatorLink) error {
	s.insertedLinks = append(s.insertedLinks, links...)
	return nil
}

func (s *stubRepo) CalculatorHandlesByDeviceZone(context.Context, int64, int64) ([]string, error) {
	return s.handles, s.handlesErr
}

func (s *stubRepo) DeleteCalculatorLinksByDeviceZone(context.Context, int64, int64) error {
	s.linksDeleted = true
	return nil
}

type stubFleet struct {
	devices    map[int64]*models.Device
	operations map[int64]*models.Operation
	zones      map[int64]*models.Zone
}

func (s *stubFleet) FindDeviceByID(_ context.Context, id int64) (*models.Device, error) {
	if device, ok := s.devices[id]; ok {
		return device, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubFleet) FindOperationByID(_ context.Context, id int64) (*models.Operation, error) {
	if operation, ok := s.operations[id]; ok {
		return operation, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubFleet) FindZoneByID(_ context.Context, id int64) (*models.Zone, error) {
	if zone, ok := s.zones[id]; ok {
		return zone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubCatalog struct {
	templates    []catalog.Template
	templatesErr error
	configs      map[string]map[string]any
	loadErrs     map[string]error
}

func (s *stubCatalog) TemplatesForCategory(string) ([]catalog.Template, error) {
	return s.templates, s.templatesErr
}

func (s *stubCatalog) LoadConfig(filePath string) (map[string]any, error) {
	if err, ok := s.loadErrs[filePath]; ok {
		return nil, err
	}
	if cfg, ok := s.configs[filePath]; ok {
		// copy so the service's mutations don't leak between calls
		out := make(map[string]any, len(cfg))
		for k, v := range cfg {
			out[k] = v
		}
		return out, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeTemplateNotFound, "template config not found under any search root")
}

type gatewayCall struct {
	op   string
	args []string
}

type stubGateway struct {
	calls          []gatewayCall
	assignErr      error
	unassignErr    error
	createErrs     map[int]error
	createdConfigs []map[string]any
	bindErr        error
	deleteErrs     map[string]error
}

func (s *stubGateway) AssignGeofence(_ context.Context, remoteDeviceID, remoteGeofenceID string) error {
	s.calls = append(s.calls, gatewayCall{op: "assign-geofence", args: []string{remoteDeviceID, remoteGeofenceID}})
	return s.assignErr
}

func (s *stubGateway) UnassignGeofence(_ context.Context, remoteDeviceID, remoteGeofenceID string) error {
	s.calls = append(s.calls, gatewayCall{op: "unassign-geofence", args: []string{remoteDeviceID, remoteGeofenceID}})
	return s.unassignErr
}

func (s *stubGateway) CreateCalculator(_ context.Context, cfg map[string]any) (*telematics.Calculator, error) {
	index := len(s.createdConfigs)
	s.createdConfigs = append(s.createdConfigs, cfg)
	s.calls = append(s.calls, gatewayCall{op: "create-calculator"})
	if err, ok := s.createErrs[index]; ok {
		return nil, err
	}
	name, _ := cfg["name"].(string)
	return &telematics.Calculator{ID: fmt.Sprintf("calc-%d", index+1), Name: name}, nil
}

func (s *stubGateway) DeleteCalculator(_ context.Context, calculatorID string) error {
	s.calls = append(s.calls, gatewayCall{op: "delete-calculator", args: []string{calculatorID}})
	if err, ok := s.deleteErrs[calculatorID]; ok {
		return err
	}
	return nil
}

func (s *stubGateway) BindCalculatorToDevice(_ context.Context, calculatorID, remoteDeviceID string) error {
	s.calls = append(s.calls, gatewayCall{op: "bind-calculator", args: []string{calculatorID, remoteDeviceID}})
	return s.bindErr
}

func (s *stubGateway) countCalls(op string) int {
	count := 0
	for _, call := range s.calls {
		if call.op == op {
			count++
		}
	}
	return count
}

type stubPositions struct {
	positions map[string]telematics.Position
	err       error
	requested []string
}

func (s *stubPositions) LastKnown(_ context.Context, remoteDeviceIDs []string) (map[string]telematics.Position, error) {
	s.requested = remoteDeviceIDs
	return s.positions, s.err
}

type fixture struct {
	repo      *stubRepo
	fleet     *stubFleet
	catalog   *stubCatalog
	gateway   *stubGateway
	positions *stubPositions
	service   Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo: &stubRepo{},
		fleet: &stubFleet{
			devices: map[int64]*models.Device{
				5: {ID: 5, Name: "Truck 12", RemoteDeviceID: "D1", Category: "haul-truck"},
			},
			operations: map[int64]*models.Operation{
				7: {ID: 7, Name: "North Pit", RemoteGeofenceID: "G-OP", UserID: 1},
			},
			zones: map[int64]*models.Zone{
				12: {ID: 12, OperationID: 7, Name: "Crusher Queue", Kind: "QUEUE_AREA", RemoteGeofenceID: "G1"},
			},
		},
		catalog: &stubCatalog{
			templates: []catalog.Template{{ID: 1, Name: "Queue Dwell", FilePath: "per-device/queue_dwell.yaml"}},
			configs: map[string]map[string]any{
				"per-device/queue_dwell.yaml": {"metric": "dwell", "id": 99, "owner_id": "acct-1", "version": 4},
			},
		},
		gateway:   &stubGateway{},
		positions: &stubPositions{},
	}

	service, err := NewService(f.repo, f.fleet, f.catalog, f.gateway, f.positions, testLogger(), nil)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	f.service = service
	return f
}

func int64Ptr(v int64) *int64 { return &v }

func TestCreateBindingScenario(t *testing.T) {
	f := newFixture(t)

	binding, err := f.service.CreateBinding(context.Background(), CreateBindingInput{
		DeviceID:    5,
		OperationID: 7,
		ZoneID:      int64Ptr(12),
	})
	if err != nil {
		t.Fatalf("CreateBinding returned error: %v", err)
	}
	if binding.ID == 0 {
		t.Fatalf("binding id not assigned")
	}
	if binding.EffectiveZoneID != 12 {
		t.Fatalf("expected effective zone 12, got %d", binding.EffectiveZoneID)
	}

	if got := f.gateway.countCalls("assign-geofence"); got != 1 {
		t.Fatalf("expected 1 assign-geofence call, got %d", got)
	}
	if f.gateway.calls[0].args[0] != "D1" || f.gateway.calls[0].args[1] != "G1" {
		t.Fatalf("assign-geofence called with %v", f.gateway.calls[0].args)
	}
	if got := f.gateway.countCalls("create-calculator"); got != 1 {
		t.Fatalf("expected 1 create-calculator call, got %d", got)
	}
	if got := f.gateway.countCalls("bind-calculator"); got != 1 {
		t.Fatalf("expected 1 bind-calculator call, got %d", got)
	}

	if len(f.repo.inserted) != 1 {
		t.Fatalf("expected 1 binding row, got %d", len(f.repo.inserted))
	}
	if len(f.repo.insertedLinks) != 1 {
		t.Fatalf("expected 1 calculator link, got %d", len(f.repo.insertedLinks))
	}
	link := f.repo.insertedLinks[0]
	if link.RemoteCalculatorID != "calc-1" || link.DeviceID != 5 || link.EffectiveZoneID != 12 || link.RemoteDeviceID != "D1" {
		t.Fatalf("unexpected link: %+v", link)
	}
}

func TestCreateBindingDefaultsEffectiveZoneToOperation(t *testing.T) {
	f := newFixture(t)

	binding, err := f.service.CreateBinding(context.Background(), CreateBindingInput{
		DeviceID:    5,
		OperationID: 7,
	})
	if err != nil {
		t.Fatalf("CreateBinding returned error: %v", err)
	}
	if binding.EffectiveZoneID != 7 {
		t.Fatalf("expected effective zone to equal operation id 7, got %d", binding.EffectiveZoneID)
	}

	// operation-level binding uses the operation's geofence
	if f.gateway.calls[0].args[1] != "G-OP" {
		t.Fatalf("expected operation geofence, got %v", f.gateway.calls[0].args)
	}
}

func TestCreateBindingDeviceNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.CreateBinding(context.Background(), CreateBindingInput{DeviceID: 404, OperationID: 7})
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected CodeNotFound, got %v", err)
	}
	if len(f.repo.inserted) != 0 {
		t.Fatalf("binding inserted despite missing device")
	}
}

func TestCreateBindingZoneNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.CreateBinding(context.Background(), CreateBindingInput{
		DeviceID:    5,
		OperationID: 7,
		ZoneID:      int64Ptr(404),
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected CodeNotFound, got %v", err)
	}
}

func TestCreateBindingConflictOnActiveBinding(t *testing.T) {
	f := newFixture(t)
	f.repo.active = true

	_, err := f.service.CreateBinding(context.Background(), CreateBindingInput{
		DeviceID:    5,
		OperationID: 7,
		ZoneID:      int64Ptr(12),
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected CodeConflict, got %v", err)
	}
	if len(f.repo.inserted) != 0 {
		t.Fatalf("binding inserted despite conflict")
	}
}

func TestCreateBindingPartialProvisioning(t *testing.T) {
	f := newFixture(t)
	f.catalog.templates = []catalog.Template{
		{ID: 1, Name: "Template A", FilePath: "per-device/a.yaml"},
		{ID: 2, Name: "Template B", FilePath: "per-device/b.yaml"},
	}
	f.catalog.configs = map[string]map[string]any{
		"per-device/a.yaml": {"metric": "a"},
		"per-device/b.yaml": {"metric": "b"},
	}
	f.gateway.createErrs = map[int]error{0: pkgerrors.New(pkgerrors.CodeRemoteUnavailable, "telematics create-calculator failed")}

	binding, err := f.service.CreateBinding(context.Background(), CreateBindingInput{
		DeviceID:    5,
		OperationID: 7,
		ZoneID:      int64Ptr(12),
	})
	if err != nil {
		t.Fatalf("CreateBinding returned error: %v", err)
	}
	if binding == nil {
		t.Fatalf("expected a binding despite the failed template")
	}
	if len(f.repo.insertedLinks) != 1 {
		t.Fatalf("expected exactly 1 link, got %d", len(f.repo.insertedLinks))
	}
	if f.repo.insertedLinks[0].RemoteCalculatorID != "calc-2" {
		t.Fatalf("expected link for the surviving template, got %+v", f.repo.insertedLinks[0])
	}
}

func TestCreateBindingMissingTemplateConfigSkipsTemplate(t *testing.T) {
	f := newFixture(t)
	f.catalog.templates = []catalog.Template{
		{ID: 1, Name: "Ghost", FilePath: "per-device/ghost.yaml"},
		{ID: 2, Name: "Real", FilePath: "per-device/queue_dwell.yaml"},
	}

	_, err := f.service.CreateBinding(context.Background(), CreateBindingInput{
		DeviceID:    5,
		OperationID: 7,
		ZoneID:      int64Ptr(12),
	})
	if err != nil {
		t.Fatalf("CreateBinding returned error: %v", err)
	}
	if len(f.repo.insertedLinks) != 1 {
		t.Fatalf("expected 1 link, got %d", len(f.repo.insertedLinks))
	}
}

func TestCreateBindingDegradedWithoutRemoteDeviceID(t *testing.T) {
	f := newFixture(t)
	f.fleet.devices[5].RemoteDeviceID = ""

	binding, err := f.service.CreateBinding(context.Background(), CreateBindingInput{
		DeviceID:    5,
		OperationID: 7,
		ZoneID:      int64Ptr(12),
	})
	if err != nil {
		t.Fatalf("CreateBinding returned error: %v", err)
	}
	if binding == nil {
		t.Fatalf("expected binding")
	}
	if len(f.gateway.calls) != 0 {
		t.Fatalf("expected no remote calls, got %v", f.gateway.calls)
	}
	if len(f.repo.insertedLinks) != 0 {
		t.Fatalf("expected no links, got %d", len(f.repo.insertedLinks))
	}
}

func TestCreateBindingGeofenceFailureDoesNotAbort(t *testing.T) {
	f := newFixture(t)
	f.gateway.assignErr = pkgerrors.New(pkgerrors.CodeRemoteUnavailable, "telematics assign-geofence failed")

	_, err := f.service.CreateBinding(context.Background(), CreateBindingInput{
		DeviceID:    5,
		OperationID: 7,
		ZoneID:      int64Ptr(12),
	})
	if err != nil {
		t.Fatalf("CreateBinding returned error: %v", err)
	}
	if got := f.gateway.countCalls("create-calculator"); got != 1 {
		t.Fatalf("calculator provisioning skipped after geofence failure, calls: %v", f.gateway.calls)
	}
}

func TestCreateBindingSanitizesAndNamesConfig(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.CreateBinding(context.Background(), CreateBindingInput{
		DeviceID:    5,
		OperationID: 7,
		ZoneID:      int64Ptr(12),
	})
	if err != nil {
		t.Fatalf("CreateBinding returned error: %v", err)
	}
	if len(f.gateway.createdConfigs) != 1 {
		t.Fatalf("expected 1 created config, got %d", len(f.gateway.createdConfigs))
	}

	cfg := f.gateway.createdConfigs[0]
	for _, field := range []string{"id", "owner_id", "version"} {
		if _, ok := cfg[field]; ok {
			t.Errorf("identity field %q sent to the platform", field)
		}
	}
	name, _ := cfg["name"].(string)
	if !strings.HasPrefix(name, "QUE Truck 12 @ North Pit/Crusher Queue") {
		t.Fatalf("unexpected synthesized name %q", name)
	}
}

func TestCreateBindingTruncatesLongNames(t *testing.T) {
	f := newFixture(t)
	f.fleet.devices[5].Name = strings.Repeat("Very Long Device Name ", 10)

	_, err := f.service.CreateBinding(context.Background(), CreateBindingInput{
		DeviceID:    5,
		OperationID: 7,
		ZoneID:      int64Ptr(12),
	})
	if err != nil {
		t.Fatalf("CreateBinding returned error: %v", err)
	}

	name, _ := f.gateway.createdConfigs[0]["name"].(string)
	if got := len([]rune(name)); got != telematics.CalculatorNameMaxLen {
		t.Fatalf("expected name truncated to %d runes, got %d", telematics.CalculatorNameMaxLen, got)
	}
}

func TestDeleteBindingScenario(t *testing.T) {
	f := newFixture(t)
	f.repo.deleteCount = 1
	f.repo.handles = []string{"calc-1"}

	if err := f.service.DeleteBinding(context.Background(), 5, 12); err != nil {
		t.Fatalf("DeleteBinding returned error: %v", err)
	}

	if got := f.gateway.countCalls("unassign-geofence"); got != 1 {
		t.Fatalf("expected 1 unassign-geofence call, got %d", got)
	}
	if f.gateway.calls[0].args[0] != "D1" || f.gateway.calls[0].args[1] != "G1" {
		t.Fatalf("unassign-geofence called with %v", f.gateway.calls[0].args)
	}
	if got := f.gateway.countCalls("delete-calculator"); got != 1 {
		t.Fatalf("expected 1 delete-calculator call, got %d", got)
	}
	if !f.repo.linksDeleted {
		t.Fatalf("calculator links not cleared")
	}
}

func TestDeleteBindingNotFound(t *testing.T) {
	f := newFixture(t)
	f.repo.deleteCount = 0

	err := f.service.DeleteBinding(context.Background(), 5, 12)
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected CodeNotFound, got %v", err)
	}
}

func TestDeleteBindingRemoteNotFoundIsSuccess(t *testing.T) {
	f := newFixture(t)
	f.repo.deleteCount = 1
	f.repo.handles = []string{"calc-1"}
	f.gateway.deleteErrs = map[string]error{
		"calc-1": pkgerrors.New(pkgerrors.CodeRemoteNotFound, "telematics delete-calculator failed"),
	}

	if err := f.service.DeleteBinding(context.Background(), 5, 12); err != nil {
		t.Fatalf("DeleteBinding returned error: %v", err)
	}
	if !f.repo.linksDeleted {
		t.Fatalf("links not cleared after remote-not-found")
	}
}

func TestDeleteBindingFailedRemoteDeleteStillClearsLinks(t *testing.T) {
	f := newFixture(t)
	f.repo.deleteCount = 1
	f.repo.handles = []string{"calc-1", "calc-2"}
	f.gateway.deleteErrs = map[string]error{
		"calc-1": pkgerrors.New(pkgerrors.CodeRemoteUnavailable, "telematics delete-calculator failed"),
	}

	if err := f.service.DeleteBinding(context.Background(), 5, 12); err != nil {
		t.Fatalf("DeleteBinding returned error: %v", err)
	}
	if got := f.gateway.countCalls("delete-calculator"); got != 2 {
		t.Fatalf("expected both calculators attempted, got %d calls", got)
	}
	if !f.repo.linksDeleted {
		t.Fatalf("links not cleared after failed remote delete")
	}
}

func TestDeleteBindingProceedsWhenZoneMissing(t *testing.T) {
	f := newFixture(t)
	f.repo.deleteCount = 1
	f.repo.handles = []string{"calc-1"}
	delete(f.fleet.zones, 12)

	if err := f.service.DeleteBinding(context.Background(), 5, 12); err != nil {
		t.Fatalf("DeleteBinding returned error: %v", err)
	}
	if got := f.gateway.countCalls("unassign-geofence"); got != 0 {
		t.Fatalf("expected no unassign call without a geofence, got %d", got)
	}
	if got := f.gateway.countCalls("delete-calculator"); got != 1 {
		t.Fatalf("expected calculator teardown to proceed, got %d calls", got)
	}
	if !f.repo.linksDeleted {
		t.Fatalf("links not cleared")
	}
}

func TestDeleteBindingOperationLevelUsesOperationGeofence(t *testing.T) {
	f := newFixture(t)
	f.repo.deleteCount = 1

	if err := f.service.DeleteBinding(context.Background(), 5, 7); err != nil {
		t.Fatalf("DeleteBinding returned error: %v", err)
	}
	if got := f.gateway.countCalls("unassign-geofence"); got != 1 {
		t.Fatalf("expected 1 unassign-geofence call, got %d", got)
	}
	if f.gateway.calls[0].args[1] != "G-OP" {
		t.Fatalf("expected operation geofence, got %v", f.gateway.calls[0].args)
	}
}

func TestListBindingsEnrichesPositions(t *testing.T) {
	f := newFixture(t)
	f.repo.rows = []BindingRow{
		{ID: 1, DeviceID: 5, DeviceName: "Truck 12", RemoteDeviceID: "D1", OperationID: 7, OperationName: "North Pit", EffectiveZoneID: 12, EffectiveZoneName: "Crusher Queue"},
		{ID: 2, DeviceID: 6, DeviceName: "Truck 13", RemoteDeviceID: "", OperationID: 7, OperationName: "North Pit", EffectiveZoneID: 7, EffectiveZoneName: "North Pit"},
	}
	f.positions.positions = map[string]telematics.Position{
		"D1": {Latitude: -23.5, Longitude: 133.8, RecordedAt: 1756400000},
	}

	views, err := f.service.ListBindings(context.Background(), int64Ptr(7))
	if err != nil {
		t.Fatalf("ListBindings returned error: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(views))
	}
	if views[0].Position == nil || views[0].Position.Latitude != -23.5 {
		t.Fatalf("expected position for D1, got %+v", views[0].Position)
	}
	if views[1].Position != nil {
		t.Fatalf("expected no position for device without remote id")
	}
	if len(f.positions.requested) != 1 || f.positions.requested[0] != "D1" {
		t.Fatalf("expected one resolver lookup for D1, got %v", f.positions.requested)
	}
}

func TestListBindingsToleratesResolverFailure(t *testing.T) {
	f := newFixture(t)
	f.repo.rows = []BindingRow{
		{ID: 1, DeviceID: 5, RemoteDeviceID: "D1", OperationID: 7},
	}
	f.positions.err = pkgerrors.New(pkgerrors.CodeRemoteUnavailable, "telematics positions failed")

	views, err := f.service.ListBindings(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListBindings returned error: %v", err)
	}
	if len(views) != 1 || views[0].Position != nil {
		t.Fatalf("expected position-less views, got %+v", views)
	}
}

func TestMarkCompleted(t *testing.T) {
	f := newFixture(t)
	f.repo.markOK = true

	ok, err := f.service.MarkCompleted(context.Background(), 42)
	if err != nil {
		t.Fatalf("MarkCompleted returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected completion to be recorded")
	}
	if f.repo.markedBindingID != 42 {
		t.Fatalf("expected binding 42 marked, got %d", f.repo.markedBindingID)
	}
}

func TestMarkCompletedUnknownBinding(t *testing.T) {
	f := newFixture(t)
	f.repo.markOK = false

	ok, err := f.service.MarkCompleted(context.Background(), 42)
	if err != nil {
		t.Fatalf("MarkCompleted returned error: %v", err)
	}
	if ok {
		t.Fatalf("expected false for unknown binding")
	}
}

func TestSynthesizeCalculatorName(t *testing.T) {
	name := synthesizeCalculatorName("QUE", "Truck 12", "North Pit", "Crusher Queue", "Queue Dwell")
	if name != "QUE Truck 12 @ North Pit/Crusher Queue - Queue Dwell" {
		t.Fatalf("unexpected name %q", name)
	}

	long := synthesizeCalculatorName("QUE", strings.Repeat("x", 200), "North Pit", "Crusher Queue", "Queue Dwell")
	if got := len([]rune(long)); got != telematics.CalculatorNameMaxLen {
		t.Fatalf("expected %d runes, got %d", telematics.CalculatorNameMaxLen, got)
	}
}

func TestCreateOutcome(t *testing.T) {
	if got := createOutcome(0, 0); got != "none" {
		t.Fatalf("expected none, got %s", got)
	}
	if got := createOutcome(2, 2); got != "full" {
		t.Fatalf("expected full, got %s", got)
	}
	if got := createOutcome(1, 2); got != "partial" {
		t.Fatalf("expected partial, got %s", got)
	}
}
