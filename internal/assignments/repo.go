package assignments

import (
	"context"
	"fmt"

	"github.com/haulpoint/fleetops-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository handles binding and calculator-link persistence. All writes are
// single-row or single-batch statements; the create/delete flows are
// deliberately not wrapped in a multi-statement transaction.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to assignment persistence.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// InsertBinding persists a new binding row and backfills its id.
func (r *Repository) InsertBinding(ctx context.Context, binding *models.Binding) error {
	if binding == nil {
		return fmt.Errorf("binding is required")
	}
	return r.db.WithContext(ctx).Create(binding).Error
}

// ActiveBindingExists reports whether an uncompleted binding already exists
// for the (device, effective zone) pair.
func (r *Repository) ActiveBindingExists(ctx context.Context, deviceID, effectiveZoneID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Binding{}).
		Where("device_id = ? AND effective_zone_id = ? AND completed_at IS NULL", deviceID, effectiveZoneID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteBindingsByDeviceZone removes every binding row for the pair and
// returns how many rows were deleted.
func (r *Repository) DeleteBindingsByDeviceZone(ctx context.Context, deviceID, effectiveZoneID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("device_id = ? AND effective_zone_id = ?", deviceID, effectiveZoneID).
		Delete(&models.Binding{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// ListBindingsByOperation returns bindings joined with device, operation, and
// zone display names. Operation-level bindings have no matching zone row, so
// the zone name falls back to the operation name. A nil operationID lists
// bindings across all operations.
func (r *Repository) ListBindingsByOperation(ctx context.Context, operationID *int64) ([]BindingRow, error) {
	query := r.db.WithContext(ctx).
		Table("bindings").
		Select(`bindings.id,
			bindings.device_id,
			devices.name AS device_name,
			devices.remote_device_id,
			bindings.operation_id,
			operations.name AS operation_name,
			bindings.effective_zone_id,
			COALESCE(zones.name, operations.name) AS effective_zone_name,
			bindings.completed_at,
			bindings.created_at`).
		Joins("JOIN devices ON devices.id = bindings.device_id").
		Joins("JOIN operations ON operations.id = bindings.operation_id").
		Joins("LEFT JOIN zones ON zones.id = bindings.effective_zone_id").
		Order("bindings.created_at DESC")

	if operationID != nil {
		query = query.Where("bindings.operation_id = ?", *operationID)
	}

	var rows []BindingRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkBindingCompleted stamps completed_at on the binding. Returns false when
// no row matched or the binding was already completed.
func (r *Repository) MarkBindingCompleted(ctx context.Context, bindingID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Binding{}).
		Where("id = ? AND completed_at IS NULL", bindingID).
		Update("completed_at", gorm.Expr("CURRENT_TIMESTAMP"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// InsertCalculatorLinks persists the batch in one statement. A nil or empty
// batch is a no-op.
func (r *Repository) InsertCalculatorLinks(ctx context.Context, links []models.CalculatorLink) error {
	if len(links) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&links).Error
}

// CalculatorHandlesByDeviceZone returns the remote calculator ids recorded for
// the pair.
func (r *Repository) CalculatorHandlesByDeviceZone(ctx context.Context, deviceID, effectiveZoneID int64) ([]string, error) {
	var handles []string
	err := r.db.WithContext(ctx).
		Model(&models.CalculatorLink{}).
		Where("device_id = ? AND effective_zone_id = ?", deviceID, effectiveZoneID).
		Order("id ASC").
		Pluck("remote_calculator_id", &handles).Error
	if err != nil {
		return nil, err
	}
	return handles, nil
}

// DeleteCalculatorLinksByDeviceZone clears the local bookkeeping for the pair
// regardless of remote delete outcomes.
func (r *Repository) DeleteCalculatorLinksByDeviceZone(ctx context.Context, deviceID, effectiveZoneID int64) error {
	return r.db.WithContext(ctx).
		Where("device_id = ? AND effective_zone_id = ?", deviceID, effectiveZoneID).
		Delete(&models.CalculatorLink{}).Error
}

// ListCalculatorLinks returns every link row, used by the reconciliation job
// to diff local bookkeeping against remote reality.
func (r *Repository) ListCalculatorLinks(ctx context.Context) ([]models.CalculatorLink, error) {
	var links []models.CalculatorLink
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}
