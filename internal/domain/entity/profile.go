// Package entity defines the domain entities.
package entity

import (
	"fmt"
	"time"
)

// ProfileRecord is one oceanographic measurement profile produced by an
// ARGO float. Records are created by the external ETL and are read-only
// to this service.
type ProfileRecord struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey"`
	FloatID     string    `json:"float_id" gorm:"type:uuid;index;not null"`
	WMOID       string    `json:"wmo_id" gorm:"column:wmo_id;type:varchar(16);index"`
	CycleNumber int       `json:"cycle_number"`
	ProfileDate time.Time `json:"profile_date" gorm:"index;not null"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`

	// Summary statistics computed by the ETL from the full measurement set.
	MinTemperature *float64 `json:"min_temperature,omitempty"`
	MaxTemperature *float64 `json:"max_temperature,omitempty"`
	MinSalinity    *float64 `json:"min_salinity,omitempty"`
	MaxSalinity    *float64 `json:"max_salinity,omitempty"`
	MaxPressure    *float64 `json:"max_pressure,omitempty"`

	SourceFile string    `json:"source_file,omitempty" gorm:"type:varchar(255)"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName sets the table name.
func (ProfileRecord) TableName() string {
	return "argo_profiles"
}

// SourceID is the provenance identifier surfaced to callers.
func (p *ProfileRecord) SourceID() string {
	if p.WMOID != "" {
		return fmt.Sprintf("wmo:%s/cycle:%d", p.WMOID, p.CycleNumber)
	}
	return p.ID
}

// InBounds reports whether the profile position lies inside bbox.
func (p *ProfileRecord) InBounds(minLat, maxLat, minLon, maxLon float64) bool {
	return p.Latitude >= minLat && p.Latitude <= maxLat &&
		p.Longitude >= minLon && p.Longitude <= maxLon
}
