package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("FLOATCHAT_TEST_HOST", "db.internal")

	t.Run("set variable wins", func(t *testing.T) {
		assert.Equal(t, "db.internal", expandEnv("${FLOATCHAT_TEST_HOST:localhost}"))
	})

	t.Run("default applies when unset", func(t *testing.T) {
		assert.Equal(t, "localhost", expandEnv("${FLOATCHAT_TEST_MISSING:localhost}"))
	})

	t.Run("unresolved placeholder stays visible", func(t *testing.T) {
		assert.Equal(t, "${FLOATCHAT_TEST_MISSING}", expandEnv("${FLOATCHAT_TEST_MISSING}"))
	})

	t.Run("surrounding text is preserved", func(t *testing.T) {
		assert.Equal(t, "host=db.internal port=5432",
			expandEnv("host=${FLOATCHAT_TEST_HOST} port=${FLOATCHAT_TEST_PORT:5432}"))
	})
}

func TestSetDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	assert.Equal(t, "floatchat", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.HTTP.Port)
	assert.Equal(t, 2020, cfg.Retrieval.MinYear)
	assert.Equal(t, 2025, cfg.Retrieval.MaxYear)
	assert.Equal(t, 100, cfg.Retrieval.StructuredLimit)
	assert.Equal(t, 8, cfg.Retrieval.VectorTopK)
	assert.InDelta(t, 0.25, cfg.Retrieval.SimilarityFloor, 0.0001)
	assert.Equal(t, "HNSW", cfg.Vector.Milvus.IndexType)
	assert.Equal(t, 1024, cfg.Embedding.Dimension)
}
