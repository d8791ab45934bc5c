package models

import "time"

// Operation is a work site. Its geofence covers the whole site; devices may be
// bound at the operation level, in which case the operation acts as the
// effective zone.
type Operation struct {
	ID               int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name             string    `gorm:"column:name;not null"`
	RemoteGeofenceID string    `gorm:"column:remote_geofence_id"`
	UserID           int64     `gorm:"column:user_id;not null"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
