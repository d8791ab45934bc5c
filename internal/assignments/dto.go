package assignments

import (
	"time"

	"github.com/haulpoint/fleetops-backend/pkg/telematics"
)

// CreateBindingInput carries the identifiers needed to bind a device. ZoneID
// is optional; when nil the device is bound at the operation level and the
// operation id becomes the effective zone id.
type CreateBindingInput struct {
	DeviceID    int64
	OperationID int64
	ZoneID      *int64
}

// BindingRow is a binding joined with its display names, as read from storage.
type BindingRow struct {
	ID                int64      `gorm:"column:id"`
	DeviceID          int64      `gorm:"column:device_id"`
	DeviceName        string     `gorm:"column:device_name"`
	RemoteDeviceID    string     `gorm:"column:remote_device_id"`
	OperationID       int64      `gorm:"column:operation_id"`
	OperationName     string     `gorm:"column:operation_name"`
	EffectiveZoneID   int64      `gorm:"column:effective_zone_id"`
	EffectiveZoneName string     `gorm:"column:effective_zone_name"`
	CompletedAt       *time.Time `gorm:"column:completed_at"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
}

// BindingView is a BindingRow enriched with the device's last-known position.
// Position is nil when the device has no remote identifier or no position has
// been reported yet.
type BindingView struct {
	BindingRow
	Position *telematics.Position
}
