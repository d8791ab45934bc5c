package models

import "time"

// Binding assigns a device to an effective zone of an operation. The effective
// zone id is either a Zone id or, for operation-level assignments, the
// Operation id itself. The table keeps completed (historical) rows, so there is
// deliberately no unique constraint on (device_id, effective_zone_id); active
// uniqueness is enforced by the orchestrator.
type Binding struct {
	ID              int64      `gorm:"column:id;primaryKey;autoIncrement"`
	DeviceID        int64      `gorm:"column:device_id;not null"`
	OperationID     int64      `gorm:"column:operation_id;not null"`
	EffectiveZoneID int64      `gorm:"column:effective_zone_id;not null"`
	CompletedAt     *time.Time `gorm:"column:completed_at"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// Active reports whether the binding still represents ongoing work.
func (b Binding) Active() bool {
	return b.CompletedAt == nil
}
