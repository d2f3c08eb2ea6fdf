package services

import (
	"context"
	"strings"

	"github.com/joaobaungartner/goncalves-backend/core/analytics"
	"github.com/joaobaungartner/goncalves-backend/core/common"
	"github.com/joaobaungartner/goncalves-backend/core/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AnalyticsService serves the generic query and aggregation endpoints
// over the whitelisted datasets.
type AnalyticsService struct {
	store *database.Store
}

// NewAnalyticsService creates the analytics service.
func NewAnalyticsService(store *database.Store) *AnalyticsService {
	return &AnalyticsService{store: store}
}

func (s *AnalyticsService) collectionFor(d analytics.Dataset) *mongo.Collection {
	switch d {
	case analytics.DatasetPolpa:
		return s.store.PolpaMetricas
	case analytics.DatasetManteiga:
		return s.store.ManteigaMetricas
	default:
		return s.store.FatosPedidos
	}
}

// Meta describes the queryable schema for the frontend.
func (s *AnalyticsService) Meta() map[string]interface{} {
	return analytics.Meta()
}

// DataQuery is a paginated raw read over one dataset.
type DataQuery struct {
	Dataset  analytics.Dataset
	Fields   []string
	Filters  analytics.FilterParams
	Page     int
	PageSize int
}

// Data lists raw documents with optional field projection.
func (s *AnalyticsService) Data(ctx context.Context, q DataQuery) (map[string]interface{}, error) {
	match, err := analytics.BuildMatch(q.Dataset, q.Filters)
	if err != nil {
		return nil, err
	}

	projection := bson.M{"_id": 0}
	if len(q.Fields) > 0 {
		if err := q.Dataset.ValidateFields(q.Fields); err != nil {
			return nil, err
		}
		for _, f := range q.Fields {
			projection[f] = 1
		}
	}

	col := s.collectionFor(q.Dataset)
	skip := int64((q.Page - 1) * q.PageSize)
	opts := options.Find().
		SetProjection(projection).
		SetSkip(skip).
		SetLimit(int64(q.PageSize))

	cursor, err := col.Find(ctx, match, opts)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	items := []bson.M{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, common.ConvertMongoError(err)
	}

	total, err := col.CountDocuments(ctx, match)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}

	return map[string]interface{}{
		"page":      q.Page,
		"page_size": q.PageSize,
		"total":     total,
		"items":     items,
	}, nil
}

// AggQuery groups one dataset by one or more fields under a metric.
type AggQuery struct {
	Dataset analytics.Dataset
	GroupBy []string
	Metric  string
	Field   string
	Sort    string // asc | desc
	Limit   int
	Filters analytics.FilterParams
}

// Agg runs the grouped aggregation and flattens the _id back into
// columns.
func (s *AnalyticsService) Agg(ctx context.Context, q AggQuery) (map[string]interface{}, error) {
	if len(q.GroupBy) == 0 {
		return nil, common.NewError(common.ErrCodeValidationInput, "group_by é obrigatório", common.StatusBadRequest, nil)
	}
	if err := q.Dataset.ValidateFields(q.GroupBy); err != nil {
		return nil, err
	}
	if q.Field != "" {
		if err := q.Dataset.ValidateField(q.Field); err != nil {
			return nil, err
		}
	}

	match, err := analytics.BuildMatch(q.Dataset, q.Filters)
	if err != nil {
		return nil, err
	}

	metricExpr, err := analytics.MetricExpr(q.Metric, q.Field)
	if err != nil {
		return nil, err
	}

	var groupID interface{}
	if len(q.GroupBy) > 1 {
		id := bson.M{}
		for _, g := range q.GroupBy {
			id[g] = "$" + g
		}
		groupID = id
	} else {
		groupID = "$" + q.GroupBy[0]
	}

	sortDir := -1
	if q.Sort == "asc" {
		sortDir = 1
	}

	pipeline := analytics.NewPipeline().
		Match(match).
		Group(groupID, bson.M{"value": metricExpr}).
		Sort(bson.D{{Key: "value", Value: sortDir}}).
		Limit(q.Limit).
		Build()

	rows, err := aggregate(ctx, s.collectionFor(q.Dataset), pipeline)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"group_by": q.GroupBy,
		"metric":   q.Metric,
		"field":    q.Field,
		"items":    normalizeAggRows(rows, q.GroupBy),
	}, nil
}

// normalizeAggRows flattens each row's _id into named columns and
// unwraps percentile arrays in value.
func normalizeAggRows(rows []bson.M, groupBy []string) []bson.M {
	items := make([]bson.M, 0, len(rows))
	for _, r := range rows {
		item := bson.M{}
		if id, ok := r["_id"].(bson.M); ok {
			for k, v := range id {
				item[k] = v
			}
		} else if id, ok := r["_id"].(map[string]interface{}); ok {
			for k, v := range id {
				item[k] = v
			}
		} else {
			item[groupBy[0]] = r["_id"]
		}
		item["value"] = analytics.UnwrapPercentile(r["value"])
		items = append(items, item)
	}
	return items
}

// DistQuery describes a distribution request.
type DistQuery struct {
	Dataset analytics.Dataset
	Field   string
	Kind    string // auto | numeric | categorical
	Bins    int
	TopN    int
	Filters analytics.FilterParams
}

// Dist returns a histogram for numeric fields or top counts for
// categorical ones.
func (s *AnalyticsService) Dist(ctx context.Context, q DistQuery) (map[string]interface{}, error) {
	if err := q.Dataset.ValidateField(q.Field); err != nil {
		return nil, err
	}

	match, err := analytics.BuildMatch(q.Dataset, q.Filters)
	if err != nil {
		return nil, err
	}

	kind := q.Kind
	if kind == "auto" || kind == "" {
		if q.Dataset.IsNumeric(q.Field) {
			kind = "numeric"
		} else {
			kind = "categorical"
		}
	}

	col := s.collectionFor(q.Dataset)

	if kind == "categorical" {
		pipeline := analytics.NewPipeline().
			Match(match).
			Group("$"+q.Field, bson.M{"count": bson.M{"$sum": 1}}).
			Sort(bson.D{{Key: "count", Value: -1}}).
			Limit(q.TopN).
			Project(bson.M{"_id": 0, "label": "$_id", "count": 1}).
			Build()

		items, err := aggregate(ctx, col, pipeline)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"field": q.Field, "kind": "categorical", "items": items}, nil
	}

	matchNotNull := bson.M{q.Field: bson.M{"$ne": nil}}
	for k, v := range match {
		matchNotNull[k] = v
	}

	pipeline := analytics.NewPipeline().
		Match(matchNotNull).
		BucketAuto(q.Field, q.Bins, bson.M{"count": bson.M{"$sum": 1}}).
		Project(bson.M{"_id": 0, "min": "$_id.min", "max": "$_id.max", "count": 1}).
		Build()

	items, err := aggregate(ctx, col, pipeline)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"field": q.Field, "kind": "numeric", "bins": q.Bins, "items": items}, nil
}

// StatsQuery describes a summary statistics request.
type StatsQuery struct {
	Dataset analytics.Dataset
	Field   string
	TopN    int
	Filters analytics.FilterParams
}

// Stats summarizes one field: count/min/max/avg/std for numeric
// fields, cardinality plus top values for the rest.
func (s *AnalyticsService) Stats(ctx context.Context, q StatsQuery) (map[string]interface{}, error) {
	if err := q.Dataset.ValidateField(q.Field); err != nil {
		return nil, err
	}

	match, err := analytics.BuildMatch(q.Dataset, q.Filters)
	if err != nil {
		return nil, err
	}

	matchNotNull := bson.M{q.Field: bson.M{"$ne": nil}}
	for k, v := range match {
		matchNotNull[k] = v
	}

	col := s.collectionFor(q.Dataset)

	if q.Dataset.IsNumeric(q.Field) {
		pipeline := analytics.NewPipeline().
			Match(matchNotNull).
			Group(nil, bson.M{
				"count": bson.M{"$sum": 1},
				"min":   bson.M{"$min": "$" + q.Field},
				"max":   bson.M{"$max": "$" + q.Field},
				"avg":   bson.M{"$avg": "$" + q.Field},
				"std":   bson.M{"$stdDevPop": "$" + q.Field},
			}).
			Project(bson.M{"_id": 0}).
			Build()

		rows, err := aggregate(ctx, col, pipeline)
		if err != nil {
			return nil, err
		}

		out := map[string]interface{}{"field": q.Field, "type": "numeric"}
		if len(rows) > 0 {
			for k, v := range rows[0] {
				out[k] = v
			}
		}
		return out, nil
	}

	pipeline := analytics.NewPipeline().
		Match(matchNotNull).
		Group("$"+q.Field, bson.M{"count": bson.M{"$sum": 1}}).
		Sort(bson.D{{Key: "count", Value: -1}}).
		Limit(q.TopN).
		Project(bson.M{"_id": 0, "label": "$_id", "count": 1}).
		Build()

	top, err := aggregate(ctx, col, pipeline)
	if err != nil {
		return nil, err
	}

	distinct, err := col.Distinct(ctx, q.Field, match)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}

	return map[string]interface{}{
		"field":       q.Field,
		"type":        "categorical",
		"cardinality": len(distinct),
		"top":         top,
	}, nil
}

// TimeseriesQuery describes a time series over fatos_pedidos.
type TimeseriesQuery struct {
	Metric      string
	Field       string
	Granularity string // day | month
	Filters     analytics.FilterParams
}

// Timeseries aggregates a numeric fatos field over data_pedido.
func (s *AnalyticsService) Timeseries(ctx context.Context, q TimeseriesQuery) (map[string]interface{}, error) {
	d := analytics.DatasetFatos
	if err := d.ValidateField(q.Field); err != nil {
		return nil, err
	}
	if !d.IsNumeric(q.Field) {
		return nil, common.NewError(
			common.ErrCodeValidationInput,
			"field precisa ser numérico em fatos",
			common.StatusBadRequest,
			d.NumericFields(),
		)
	}

	match, err := analytics.BuildMatch(d, q.Filters)
	if err != nil {
		return nil, err
	}
	match["data_pedido"] = mergeDateNotNull(match["data_pedido"])

	metricExpr, err := analytics.MetricExpr(q.Metric, q.Field)
	if err != nil {
		return nil, err
	}

	pipeline := analytics.NewPipeline().
		Match(match).
		Group(analytics.DateGroupID(q.Granularity), bson.M{"value": metricExpr}).
		Sort(analytics.DateSort(q.Granularity)).
		Project(analytics.DateProject(q.Granularity)).
		Build()

	rows, err := aggregate(ctx, s.store.FatosPedidos, pipeline)
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		r["value"] = analytics.UnwrapPercentile(r["value"])
	}

	return map[string]interface{}{
		"field":       q.Field,
		"metric":      q.Metric,
		"granularity": q.Granularity,
		"items":       rows,
	}, nil
}

// mergeDateNotNull combines an existing data_pedido range filter with
// the non-null requirement time series need.
func mergeDateNotNull(existing interface{}) bson.M {
	merged := bson.M{"$ne": nil}
	if rangeFilter, ok := existing.(bson.M); ok {
		for k, v := range rangeFilter {
			merged[k] = v
		}
	}
	return merged
}

// Join returns the full document for one order: the fato plus the
// technical metrics collection matching its product type.
func (s *AnalyticsService) Join(ctx context.Context, idPedido string) (map[string]interface{}, error) {
	noID := options.FindOne().SetProjection(bson.M{"_id": 0})

	pedido := bson.M{}
	err := s.store.FatosPedidos.FindOne(ctx, bson.M{"id_pedido": idPedido}, noID).Decode(&pedido)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, common.NewError(common.ErrCodeDatabaseQuery, "Pedido não encontrado", common.StatusNotFound, nil)
		}
		return nil, common.ConvertMongoError(err)
	}

	tipo, _ := pedido["tipo_produto"].(string)

	var detalhes interface{}
	switch {
	case strings.Contains(tipo, "Polpa"):
		doc := bson.M{}
		if err := s.store.PolpaMetricas.FindOne(ctx, bson.M{"id_pedido": idPedido}, noID).Decode(&doc); err == nil {
			detalhes = doc
		}
	case strings.Contains(tipo, "Manteiga"):
		doc := bson.M{}
		if err := s.store.ManteigaMetricas.FindOne(ctx, bson.M{"id_pedido": idPedido}, noID).Decode(&doc); err == nil {
			detalhes = doc
		}
	}

	return map[string]interface{}{"pedido": pedido, "detalhes": detalhes}, nil
}
