package analytics

import (
	"fmt"

	"github.com/joaobaungartner/goncalves-backend/core/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Pipeline builds an aggregation pipeline stage by stage.
type Pipeline struct {
	stages mongo.Pipeline
}

// NewPipeline starts an empty pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

func (p *Pipeline) add(stage string, doc interface{}) *Pipeline {
	p.stages = append(p.stages, bson.D{{Key: stage, Value: doc}})
	return p
}

// Match appends a $match stage.
func (p *Pipeline) Match(q bson.M) *Pipeline {
	return p.add("$match", q)
}

// AddFields appends an $addFields stage.
func (p *Pipeline) AddFields(fields bson.M) *Pipeline {
	return p.add("$addFields", fields)
}

// Group appends a $group stage with the given _id expression and
// accumulators.
func (p *Pipeline) Group(id interface{}, accumulators bson.M) *Pipeline {
	doc := bson.M{"_id": id}
	for k, v := range accumulators {
		doc[k] = v
	}
	return p.add("$group", doc)
}

// Sort appends a $sort stage. bson.D keeps the key order.
func (p *Pipeline) Sort(keys bson.D) *Pipeline {
	return p.add("$sort", keys)
}

// Limit appends a $limit stage.
func (p *Pipeline) Limit(n int) *Pipeline {
	return p.add("$limit", n)
}

// Skip appends a $skip stage.
func (p *Pipeline) Skip(n int) *Pipeline {
	return p.add("$skip", n)
}

// Project appends a $project stage.
func (p *Pipeline) Project(spec bson.M) *Pipeline {
	return p.add("$project", spec)
}

// BucketAuto appends a $bucketAuto stage grouping on the field.
func (p *Pipeline) BucketAuto(field string, buckets int, output bson.M) *Pipeline {
	return p.add("$bucketAuto", bson.M{
		"groupBy": "$" + field,
		"buckets": buckets,
		"output":  output,
	})
}

// Lookup appends a $lookup stage.
func (p *Pipeline) Lookup(from, localField, foreignField, as string) *Pipeline {
	return p.add("$lookup", bson.M{
		"from":         from,
		"localField":   localField,
		"foreignField": foreignField,
		"as":           as,
	})
}

// Unwind appends an $unwind stage. preserveEmpty keeps documents with
// no array entries.
func (p *Pipeline) Unwind(path string, preserveEmpty bool) *Pipeline {
	return p.add("$unwind", bson.M{
		"path":                       path,
		"preserveNullAndEmptyArrays": preserveEmpty,
	})
}

// Build returns the assembled pipeline.
func (p *Pipeline) Build() mongo.Pipeline {
	return p.stages
}

// Percentile probabilities per metric name.
var percentiles = map[string]float64{
	"p50": 0.50,
	"p90": 0.90,
	"p95": 0.95,
}

// MetricNames lists the supported aggregation metrics.
var MetricNames = []string{"count", "sum", "avg", "min", "max", "p50", "p90", "p95"}

// MetricExpr builds the accumulator for the metric over the field.
// count ignores the field, every other metric requires one.
func MetricExpr(metric, field string) (bson.M, error) {
	if metric == "count" {
		return bson.M{"$sum": 1}, nil
	}

	if field == "" {
		return nil, common.NewError(
			common.ErrCodeValidationInput,
			"metric diferente de count exige field",
			common.StatusBadRequest,
			nil,
		)
	}

	switch metric {
	case "sum":
		return bson.M{"$sum": "$" + field}, nil
	case "avg":
		return bson.M{"$avg": "$" + field}, nil
	case "min":
		return bson.M{"$min": "$" + field}, nil
	case "max":
		return bson.M{"$max": "$" + field}, nil
	}

	if prob, ok := percentiles[metric]; ok {
		return bson.M{"$percentile": bson.M{
			"input":  "$" + field,
			"p":      bson.A{prob},
			"method": "approximate",
		}}, nil
	}

	return nil, common.NewError(
		common.ErrCodeValidationInput,
		fmt.Sprintf("metric inválida: %s", metric),
		common.StatusBadRequest,
		nil,
	)
}

// UnwrapPercentile unwraps the single-element array $percentile
// returns. Everything else passes through untouched.
func UnwrapPercentile(value interface{}) interface{} {
	switch v := value.(type) {
	case bson.A:
		if len(v) == 1 {
			return v[0]
		}
	case []interface{}:
		if len(v) == 1 {
			return v[0]
		}
	}
	return value
}

// ReceitaExpr is the estimated revenue expression derived per order:
// quantidade_kg * preco_unitario_brl_kg.
func ReceitaExpr() bson.M {
	return bson.M{"$multiply": bson.A{"$quantidade_kg", "$preco_unitario_brl_kg"}}
}

// DateGroupID builds the $group _id for a data_pedido time series at
// the given granularity ("day" or "month").
func DateGroupID(granularity string) bson.M {
	id := bson.M{
		"year":  bson.M{"$year": "$data_pedido"},
		"month": bson.M{"$month": "$data_pedido"},
	}
	if granularity == "day" {
		id["day"] = bson.M{"$dayOfMonth": "$data_pedido"}
	}
	return id
}

// DateSort orders time-series buckets chronologically.
func DateSort(granularity string) bson.D {
	keys := bson.D{
		{Key: "_id.year", Value: 1},
		{Key: "_id.month", Value: 1},
	}
	if granularity == "day" {
		keys = append(keys, bson.E{Key: "_id.day", Value: 1})
	}
	return keys
}

// DateProject flattens the time-series bucket _id into year/month
// (and day) columns next to value.
func DateProject(granularity string) bson.M {
	spec := bson.M{
		"_id":   0,
		"year":  "$_id.year",
		"month": "$_id.month",
		"value": 1,
	}
	if granularity == "day" {
		spec["day"] = "$_id.day"
	}
	return spec
}
