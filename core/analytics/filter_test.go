package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson"
)

func TestCoerceNumeric(t *testing.T) {
	c := CoerceNumeric("8")
	assert.True(t, c.Coerced)
	assert.Equal(t, 8, c.Value)

	c = CoerceNumeric("31.9")
	assert.True(t, c.Coerced)
	assert.Equal(t, 31.9, c.Value)

	c = CoerceNumeric("alto")
	assert.False(t, c.Coerced)
	assert.Equal(t, "alto", c.Value)
}

func TestBuildMatchStandardFilters(t *testing.T) {
	mes := 3
	q, err := BuildMatch(DatasetFatos, FilterParams{
		TipoProduto:     "Polpa Premium",
		MesDoAnoNum:     &mes,
		Canal:           "Atacado",
		RegiaoDestino:   "Sudeste",
		ClienteSegmento: "Industrial",
	})
	require.NoError(t, err)

	assert.Equal(t, "Polpa Premium", q["tipo_produto"])
	assert.Equal(t, 3, q["mes_do_ano_num"])
	assert.Equal(t, "Atacado", q["canal"])
	assert.Equal(t, "Sudeste", q["regiao_destino"])
	assert.Equal(t, "Industrial", q["cliente_segmento"])
}

func TestBuildMatchSkipsFieldsAbsentFromDataset(t *testing.T) {
	q, err := BuildMatch(DatasetPolpa, FilterParams{
		TipoProduto: "Manteiga",
		Canal:       "Varejo",
		DateFrom:    "2025-01-01",
	})
	require.NoError(t, err)
	assert.Empty(t, q)
}

func TestBuildMatchDateRange(t *testing.T) {
	q, err := BuildMatch(DatasetFatos, FilterParams{
		DateFrom: "2025-07-01T00:00:00",
		DateTo:   "2025-07-31",
	})
	require.NoError(t, err)

	dt, ok := q["data_pedido"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), dt["$gte"])
	assert.Equal(t, time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC), dt["$lte"])

	_, err = BuildMatch(DatasetFatos, FilterParams{DateFrom: "julho"})
	assert.Error(t, err)
}

func TestBuildMatchExtraFilters(t *testing.T) {
	q, err := BuildMatch(DatasetFatos, FilterParams{
		ExtraFilters: "nps_0a10=8, canal=Atacado",
	})
	require.NoError(t, err)
	assert.Equal(t, 8, q["nps_0a10"])
	assert.Equal(t, "Atacado", q["canal"])

	_, err = BuildMatch(DatasetFatos, FilterParams{ExtraFilters: "canal"})
	assert.Error(t, err)

	_, err = BuildMatch(DatasetFatos, FilterParams{ExtraFilters: "campo_inexistente=1"})
	assert.Error(t, err)
}
