package models

import "time"

// CalculatorLink records one remote calculator instantiated for a binding. The
// remote resource it names is exclusively owned by this row; handles are never
// shared across links.
type CalculatorLink struct {
	ID                 int64     `gorm:"column:id;primaryKey;autoIncrement"`
	RemoteCalculatorID string    `gorm:"column:remote_calculator_id;not null"`
	DeviceID           int64     `gorm:"column:device_id;not null"`
	RemoteDeviceID     string    `gorm:"column:remote_device_id"`
	OperationID        int64     `gorm:"column:operation_id;not null"`
	EffectiveZoneID    int64     `gorm:"column:effective_zone_id;not null"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime"`
}
