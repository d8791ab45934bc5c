package models

import (
	"time"

	"github.com/haulpoint/fleetops-backend/pkg/enums"
)

// Zone is a sub-area of an operation. The kind-specific threshold columns are
// mutually exclusive: only the subset matching Kind may be non-null.
type Zone struct {
	ID               int64          `gorm:"column:id;primaryKey;autoIncrement"`
	OperationID      int64          `gorm:"column:operation_id;not null"`
	Name             string         `gorm:"column:name;not null"`
	Kind             enums.ZoneKind `gorm:"column:kind;not null"`
	RemoteGeofenceID string         `gorm:"column:remote_geofence_id"`

	IdealQueueDurationMinutes   *int `gorm:"column:ideal_queue_duration_minutes"`
	MaxVehicleCount             *int `gorm:"column:max_vehicle_count"`
	IdealLoadingDurationMinutes *int `gorm:"column:ideal_loading_duration_minutes"`
	IdealDumpingDurationMinutes *int `gorm:"column:ideal_dumping_duration_minutes"`
	MaxSpeedKmh                 *int `gorm:"column:max_speed_kmh"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// MetadataForKind nils out every threshold column that does not apply to the
// zone's kind.
func (z *Zone) MetadataForKind() {
	if z == nil {
		return
	}
	switch z.Kind {
	case enums.ZoneKindQueueArea:
		z.IdealLoadingDurationMinutes = nil
		z.IdealDumpingDurationMinutes = nil
		z.MaxSpeedKmh = nil
	case enums.ZoneKindLoadPad:
		z.IdealQueueDurationMinutes = nil
		z.MaxVehicleCount = nil
		z.IdealDumpingDurationMinutes = nil
		z.MaxSpeedKmh = nil
	case enums.ZoneKindDumpArea:
		z.IdealQueueDurationMinutes = nil
		z.MaxVehicleCount = nil
		z.IdealLoadingDurationMinutes = nil
		z.MaxSpeedKmh = nil
	case enums.ZoneKindZoneArea:
		z.IdealQueueDurationMinutes = nil
		z.MaxVehicleCount = nil
		z.IdealLoadingDurationMinutes = nil
		z.IdealDumpingDurationMinutes = nil
	}
}
