package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ahermangesh/floatchat/internal/domain/repository"
	"github.com/ahermangesh/floatchat/internal/interfaces/http/dto"
	"github.com/ahermangesh/floatchat/pkg/errors"
)

// FloatHandler serves float catalog endpoints.
type FloatHandler struct {
	floats   repository.FloatRepository
	profiles repository.ProfileRepository
}

// NewFloatHandler builds the float handler.
func NewFloatHandler(floats repository.FloatRepository, profiles repository.ProfileRepository) *FloatHandler {
	return &FloatHandler{floats: floats, profiles: profiles}
}

// List handles GET /v1/floats.
func (h *FloatHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	floats, err := h.floats.List(c.Request.Context(), limit)
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	dto.Success(c, dto.FloatListResponse{Floats: floats, Count: len(floats)})
}

// Get handles GET /v1/floats/:wmo_id.
func (h *FloatHandler) Get(c *gin.Context) {
	wmoID := c.Param("wmo_id")
	if wmoID == "" {
		dto.FromAppError(c, errors.New(errors.CodeInvalidParam, "wmo_id is required"))
		return
	}

	f, err := h.floats.GetByWMOID(c.Request.Context(), wmoID)
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	dto.Success(c, f)
}

// Profiles handles GET /v1/floats/:wmo_id/profiles.
func (h *FloatHandler) Profiles(c *gin.Context) {
	wmoID := c.Param("wmo_id")
	if wmoID == "" {
		dto.FromAppError(c, errors.New(errors.CodeInvalidParam, "wmo_id is required"))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	records, err := h.profiles.Find(c.Request.Context(), repository.ProfileFilter{
		WMOID: wmoID,
		Limit: limit,
	})
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	dto.Success(c, dto.FloatProfilesResponse{WMOID: wmoID, Profiles: records, Count: len(records)})
}
