package models

import "time"

// Device is a tracked fleet asset mirrored onto the telemetry platform.
type Device struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name           string    `gorm:"column:name;not null"`
	RemoteDeviceID string    `gorm:"column:remote_device_id"`
	Category       string    `gorm:"column:category"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
