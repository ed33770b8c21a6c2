package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahermangesh/floatchat/pkg/errors"
)

func TestProfileFilter_Validate(t *testing.T) {
	t.Run("allow listed fields pass", func(t *testing.T) {
		f := ProfileFilter{Conditions: []FieldCondition{
			{Field: "min_temperature", Op: ">=", Value: 4.0},
			{Field: "max_salinity", Op: "<", Value: 36.0},
		}}
		require.NoError(t, f.Validate(100, 100000))
		assert.Equal(t, 100, f.Limit)
		assert.Equal(t, SortOrderAsc, f.Order)
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		f := ProfileFilter{Conditions: []FieldCondition{
			{Field: "password", Op: "=", Value: "x"},
		}}
		err := f.Validate(100, 100000)
		require.Error(t, err)
		assert.Equal(t, errors.CodeQueryRejected, errors.AsAppError(err).Code)
	})

	t.Run("injection shaped field rejected", func(t *testing.T) {
		f := ProfileFilter{Conditions: []FieldCondition{
			{Field: "latitude; DROP TABLE argo_profiles", Op: "=", Value: 1},
		}}
		err := f.Validate(100, 100000)
		require.Error(t, err)
		assert.Equal(t, errors.CodeQueryRejected, errors.AsAppError(err).Code)
	})

	t.Run("unknown operator rejected", func(t *testing.T) {
		f := ProfileFilter{Conditions: []FieldCondition{
			{Field: "latitude", Op: "LIKE", Value: "%"},
		}}
		err := f.Validate(100, 100000)
		require.Error(t, err)
	})

	t.Run("limit above cap needs export confirmation", func(t *testing.T) {
		f := ProfileFilter{Limit: 5000}
		require.Error(t, f.Validate(100, 100000))

		f = ProfileFilter{Limit: 5000, ConfirmedExport: true}
		require.NoError(t, f.Validate(100, 100000))
	})

	t.Run("export ceiling is absolute", func(t *testing.T) {
		f := ProfileFilter{Limit: 200000, ConfirmedExport: true}
		require.Error(t, f.Validate(100, 100000))
	})

	t.Run("explicit sort orders pass", func(t *testing.T) {
		f := ProfileFilter{Order: SortOrderDesc}
		require.NoError(t, f.Validate(100, 100000))
		assert.Equal(t, SortOrderDesc, f.Order)
	})

	t.Run("injection shaped sort order rejected", func(t *testing.T) {
		f := ProfileFilter{Order: "ASC; DROP TABLE argo_profiles"}
		err := f.Validate(100, 100000)
		require.Error(t, err)
		assert.Equal(t, errors.CodeQueryRejected, errors.AsAppError(err).Code)
	})
}

func TestBoundingBox_Contains(t *testing.T) {
	box := BoundingBox{MinLat: 10, MaxLat: 25, MinLon: 50, MaxLon: 75}
	assert.True(t, box.Contains(15, 60))
	assert.True(t, box.Contains(10, 50), "edges are inclusive")
	assert.False(t, box.Contains(26, 60))
	assert.False(t, box.Contains(15, 80))
}
