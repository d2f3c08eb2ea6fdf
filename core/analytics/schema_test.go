package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetFromName(t *testing.T) {
	d, err := DatasetFromName("fatos")
	require.NoError(t, err)
	assert.Equal(t, DatasetFatos, d)
	assert.Equal(t, "fatos_pedidos", d.CollectionName())

	d, err = DatasetFromName("polpa")
	require.NoError(t, err)
	assert.Equal(t, "polpa_metricas", d.CollectionName())

	d, err = DatasetFromName("manteiga")
	require.NoError(t, err)
	assert.Equal(t, "manteiga_metricas", d.CollectionName())

	_, err = DatasetFromName("vendas")
	assert.Error(t, err)
}

func TestDatasetFieldClassification(t *testing.T) {
	assert.True(t, DatasetFatos.HasField("quantidade_kg"))
	assert.True(t, DatasetFatos.IsNumeric("quantidade_kg"))
	assert.True(t, DatasetFatos.HasField("canal"))
	assert.False(t, DatasetFatos.IsNumeric("canal"))

	// id_pedido is queryable but neither numeric nor categorical
	assert.True(t, DatasetPolpa.HasField("id_pedido"))
	assert.False(t, DatasetPolpa.IsNumeric("id_pedido"))

	assert.True(t, DatasetManteiga.HasField("teor_umidade_pct"))
	assert.False(t, DatasetFatos.HasField("teor_umidade_pct"))
}

func TestDatasetValidateFields(t *testing.T) {
	err := DatasetFatos.ValidateFields([]string{"canal", "regiao_destino"})
	assert.NoError(t, err)

	err = DatasetFatos.ValidateFields([]string{"canal", "lote_id"})
	assert.Error(t, err)
}

func TestMeta(t *testing.T) {
	meta := Meta()

	assert.Equal(t, []string{"fatos", "polpa", "manteiga"}, meta["collections"])

	fields, ok := meta["fields"].(map[string][]string)
	require.True(t, ok)
	assert.Len(t, fields["fatos"], 11)
	assert.Len(t, fields["polpa"], 6)
	assert.Len(t, fields["manteiga"], 6)

	numeric, ok := meta["numeric_fields"].(map[string][]string)
	require.True(t, ok)
	assert.Contains(t, numeric["manteiga"], "indice_acidez_mgKOH_g")
}
