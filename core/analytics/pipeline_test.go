package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson"
)

func TestPipelineBuildKeepsStageOrder(t *testing.T) {
	p := NewPipeline().
		Match(bson.M{"canal": "Atacado"}).
		Group("$regiao_destino", bson.M{"value": bson.M{"$sum": 1}}).
		Sort(bson.D{{Key: "value", Value: -1}}).
		Limit(10).
		Build()

	require.Len(t, p, 4)
	assert.Equal(t, "$match", p[0][0].Key)
	assert.Equal(t, "$group", p[1][0].Key)
	assert.Equal(t, "$sort", p[2][0].Key)
	assert.Equal(t, "$limit", p[3][0].Key)
}

func TestPipelineBucketAuto(t *testing.T) {
	p := NewPipeline().
		BucketAuto("quantidade_kg", 20, bson.M{"count": bson.M{"$sum": 1}}).
		Build()

	require.Len(t, p, 1)
	stage, ok := p[0][0].Value.(bson.M)
	require.True(t, ok)
	assert.Equal(t, "$quantidade_kg", stage["groupBy"])
	assert.Equal(t, 20, stage["buckets"])
}

func TestPipelineLookupUnwind(t *testing.T) {
	p := NewPipeline().
		Lookup("polpa_metricas", "id_pedido", "id_pedido", "polpa").
		Unwind("$polpa", true).
		Build()

	require.Len(t, p, 2)
	lookup, ok := p[0][0].Value.(bson.M)
	require.True(t, ok)
	assert.Equal(t, "polpa_metricas", lookup["from"])
	assert.Equal(t, "id_pedido", lookup["localField"])

	unwind, ok := p[1][0].Value.(bson.M)
	require.True(t, ok)
	assert.Equal(t, "$polpa", unwind["path"])
	assert.Equal(t, true, unwind["preserveNullAndEmptyArrays"])
}

func TestMetricExpr(t *testing.T) {
	expr, err := MetricExpr("count", "")
	require.NoError(t, err)
	assert.Equal(t, bson.M{"$sum": 1}, expr)

	expr, err = MetricExpr("sum", "quantidade_kg")
	require.NoError(t, err)
	assert.Equal(t, bson.M{"$sum": "$quantidade_kg"}, expr)

	expr, err = MetricExpr("p90", "nps_0a10")
	require.NoError(t, err)
	pct, ok := expr["$percentile"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, "$nps_0a10", pct["input"])
	assert.Equal(t, bson.A{0.90}, pct["p"])
	assert.Equal(t, "approximate", pct["method"])

	_, err = MetricExpr("sum", "")
	assert.Error(t, err)

	_, err = MetricExpr("median", "nps_0a10")
	assert.Error(t, err)
}

func TestUnwrapPercentile(t *testing.T) {
	assert.Equal(t, 7.5, UnwrapPercentile(bson.A{7.5}))
	assert.Equal(t, 7.5, UnwrapPercentile([]interface{}{7.5}))
	assert.Equal(t, 42.0, UnwrapPercentile(42.0))
	assert.Equal(t, bson.A{1.0, 2.0}, UnwrapPercentile(bson.A{1.0, 2.0}))
}

func TestReceitaExpr(t *testing.T) {
	expr := ReceitaExpr()
	assert.Equal(t, bson.M{"$multiply": bson.A{"$quantidade_kg", "$preco_unitario_brl_kg"}}, expr)
}

func TestDateGrouping(t *testing.T) {
	id := DateGroupID("month")
	assert.NotContains(t, id, "day")

	id = DateGroupID("day")
	assert.Contains(t, id, "day")

	sort := DateSort("day")
	require.Len(t, sort, 3)
	assert.Equal(t, "_id.day", sort[2].Key)

	proj := DateProject("month")
	assert.NotContains(t, proj, "day")
	assert.Equal(t, "$_id.year", proj["year"])
}
