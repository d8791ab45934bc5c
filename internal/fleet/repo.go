package fleet

import (
	"context"

	"github.com/haulpoint/fleetops-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes read-only lookups over devices, operations, and zones.
// The assignment service references these rows but never mutates them.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to fleet lookups.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindDeviceByID loads a device row.
func (r *Repository) FindDeviceByID(ctx context.Context, id int64) (*models.Device, error) {
	var device models.Device
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&device).Error; err != nil {
		return nil, err
	}
	return &device, nil
}

// FindOperationByID loads an operation row.
func (r *Repository) FindOperationByID(ctx context.Context, id int64) (*models.Operation, error) {
	var operation models.Operation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&operation).Error; err != nil {
		return nil, err
	}
	return &operation, nil
}

// FindZoneByID loads a zone row.
func (r *Repository) FindZoneByID(ctx context.Context, id int64) (*models.Zone, error) {
	var zone models.Zone
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&zone).Error; err != nil {
		return nil, err
	}
	return &zone, nil
}

// ListZonesByOperation returns all zones belonging to an operation.
func (r *Repository) ListZonesByOperation(ctx context.Context, operationID int64) ([]models.Zone, error) {
	var zones []models.Zone
	if err := r.db.WithContext(ctx).
		Where("operation_id = ?", operationID).
		Order("id ASC").
		Find(&zones).Error; err != nil {
		return nil, err
	}
	return zones, nil
}

// ListDevicesWithRemoteID returns every device mirrored onto the telemetry
// platform, used by the reconciliation sweep.
func (r *Repository) ListDevicesWithRemoteID(ctx context.Context) ([]models.Device, error) {
	var devices []models.Device
	if err := r.db.WithContext(ctx).
		Where("remote_device_id <> ''").
		Order("id ASC").
		Find(&devices).Error; err != nil {
		return nil, err
	}
	return devices, nil
}

// ListDevicesByIDs returns device rows for the given ids.
func (r *Repository) ListDevicesByIDs(ctx context.Context, ids []int64) ([]models.Device, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var devices []models.Device
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&devices).Error; err != nil {
		return nil, err
	}
	return devices, nil
}
