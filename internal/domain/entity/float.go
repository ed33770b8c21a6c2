package entity

import (
	"time"
)

// FloatStatus describes the operational state of a float.
type FloatStatus string

const (
	FloatStatusActive   FloatStatus = "active"
	FloatStatusInactive FloatStatus = "inactive"
	FloatStatusDead     FloatStatus = "dead"
)

// Float is an autonomous drifting sensor platform. Created by the
// external ETL; read-only here.
type Float struct {
	ID                  string      `json:"id" gorm:"type:uuid;primaryKey"`
	WMOID               string      `json:"wmo_id" gorm:"column:wmo_id;type:varchar(16);uniqueIndex;not null"`
	PlatformType        string      `json:"platform_type,omitempty" gorm:"type:varchar(64)"`
	DeploymentDate      *time.Time  `json:"deployment_date,omitempty"`
	DeploymentLatitude  *float64    `json:"deployment_latitude,omitempty"`
	DeploymentLongitude *float64    `json:"deployment_longitude,omitempty"`
	Status              FloatStatus `json:"status" gorm:"type:varchar(32);default:'active'"`
	TotalProfiles       int         `json:"total_profiles" gorm:"default:0"`
	CreatedAt           time.Time   `json:"created_at" gorm:"autoCreateTime"`
}

// TableName sets the table name.
func (Float) TableName() string {
	return "argo_floats"
}
