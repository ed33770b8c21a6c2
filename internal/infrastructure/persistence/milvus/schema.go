package milvus

import (
	"fmt"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

// CollectionProfileSummaries holds embedded natural-language summaries
// of ARGO profiles together with the metadata needed for re-ranking and
// response assembly.
const CollectionProfileSummaries = "profile_summaries"

// ProfileSummariesSchema builds the collection schema for the given
// embedding dimension.
func ProfileSummariesSchema(dimension int) *entity.Schema {
	return &entity.Schema{
		CollectionName: CollectionProfileSummaries,
		Description:    "ARGO profile summaries for semantic search",
		Fields: []*entity.Field{
			{
				Name:       "id",
				DataType:   entity.FieldTypeVarChar,
				PrimaryKey: true,
				AutoID:     false,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "vector",
				DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{
					"dim": fmt.Sprintf("%d", dimension),
				},
			},
			{
				Name:     "wmo_id",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "16",
				},
			},
			{
				Name:     "cycle_number",
				DataType: entity.FieldTypeInt64,
			},
			{
				// Unix seconds of the profile date.
				Name:     "profile_date",
				DataType: entity.FieldTypeInt64,
			},
			{
				Name:     "latitude",
				DataType: entity.FieldTypeDouble,
			},
			{
				Name:     "longitude",
				DataType: entity.FieldTypeDouble,
			},
			{
				Name:     "min_temperature",
				DataType: entity.FieldTypeDouble,
			},
			{
				Name:     "max_temperature",
				DataType: entity.FieldTypeDouble,
			},
			{
				Name:     "min_salinity",
				DataType: entity.FieldTypeDouble,
			},
			{
				Name:     "max_salinity",
				DataType: entity.FieldTypeDouble,
			},
			{
				Name:     "summary",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "2048",
				},
			},
		},
	}
}

// ProfileSummary is the stored row shape.
type ProfileSummary struct {
	ID             string    `json:"id"`
	Vector         []float32 `json:"vector"`
	WMOID          string    `json:"wmo_id"`
	CycleNumber    int64     `json:"cycle_number"`
	ProfileDate    int64     `json:"profile_date"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	MinTemperature float64   `json:"min_temperature"`
	MaxTemperature float64   `json:"max_temperature"`
	MinSalinity    float64   `json:"min_salinity"`
	MaxSalinity    float64   `json:"max_salinity"`
	Summary        string    `json:"summary"`
}

var summaryOutputFields = []string{
	"id", "wmo_id", "cycle_number", "profile_date",
	"latitude", "longitude",
	"min_temperature", "max_temperature", "min_salinity", "max_salinity",
}
