package dto

import (
	"github.com/ahermangesh/floatchat/internal/domain/entity"
)

// FloatListResponse lists floats.
type FloatListResponse struct {
	Floats []*entity.Float `json:"floats"`
	Count  int             `json:"count"`
}

// FloatProfilesResponse lists profiles for one float.
type FloatProfilesResponse struct {
	WMOID    string                  `json:"wmo_id"`
	Profiles []*entity.ProfileRecord `json:"profiles"`
	Count    int                     `json:"count"`
}
