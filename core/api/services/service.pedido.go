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

// PedidoService serves the order-centric endpoints: listing, KPIs,
// time series and single-order detail.
type PedidoService struct {
	store *database.Store
}

// NewPedidoService creates the pedido service.
func NewPedidoService(store *database.Store) *PedidoService {
	return &PedidoService{store: store}
}

// PedidoFilter are the categorical filters the pedido endpoints share.
type PedidoFilter struct {
	TipoProduto     string
	MesDoAnoNum     *int
	Canal           string
	RegiaoDestino   string
	ClienteSegmento string
}

func (f PedidoFilter) match() bson.M {
	q := bson.M{}
	if f.TipoProduto != "" {
		q["tipo_produto"] = f.TipoProduto
	}
	if f.MesDoAnoNum != nil {
		q["mes_do_ano_num"] = *f.MesDoAnoNum
	}
	if f.Canal != "" {
		q["canal"] = f.Canal
	}
	if f.RegiaoDestino != "" {
		q["regiao_destino"] = f.RegiaoDestino
	}
	if f.ClienteSegmento != "" {
		q["cliente_segmento"] = f.ClienteSegmento
	}
	return q
}

// List pages orders sorted by data_pedido descending.
func (s *PedidoService) List(ctx context.Context, filter PedidoFilter, page, pageSize int) (map[string]interface{}, error) {
	match := filter.match()

	skip := int64((page - 1) * pageSize)
	opts := options.Find().
		SetProjection(bson.M{"_id": 0}).
		SetSort(bson.D{{Key: "data_pedido", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(pageSize))

	cursor, err := s.store.FatosPedidos.Find(ctx, match, opts)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	items := []bson.M{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, common.ConvertMongoError(err)
	}

	total, err := s.store.FatosPedidos.CountDocuments(ctx, match)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}

	return map[string]interface{}{
		"page":      page,
		"page_size": pageSize,
		"total":     total,
		"items":     items,
	}, nil
}

// KPIs aggregates order count, volume, estimated revenue, average
// price and average NPS under the filter.
func (s *PedidoService) KPIs(ctx context.Context, filter PedidoFilter) (map[string]interface{}, error) {
	pipeline := analytics.NewPipeline().
		Match(filter.match()).
		AddFields(bson.M{"receita_estimada": analytics.ReceitaExpr()}).
		Group(nil, bson.M{
			"pedidos":                bson.M{"$sum": 1},
			"volume_total_kg":        bson.M{"$sum": "$quantidade_kg"},
			"receita_estimada_total": bson.M{"$sum": "$receita_estimada"},
			"preco_medio":            bson.M{"$avg": "$preco_unitario_brl_kg"},
			"nps_medio":              bson.M{"$avg": "$nps_0a10"},
		}).
		Project(bson.M{"_id": 0}).
		Build()

	rows, err := aggregate(ctx, s.store.FatosPedidos, pipeline)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return map[string]interface{}{
			"pedidos":                0,
			"volume_total_kg":        0,
			"receita_estimada_total": 0,
			"preco_medio":            nil,
			"nps_medio":              nil,
		}, nil
	}
	return rows[0], nil
}

// Timeseries aggregates volume, revenue and NPS per day or month.
func (s *PedidoService) Timeseries(ctx context.Context, filter PedidoFilter, granularity string) ([]bson.M, error) {
	sortKeys := analytics.DateSort(granularity)

	project := bson.M{
		"_id":              0,
		"year":             "$_id.year",
		"month":            "$_id.month",
		"volume_kg":        1,
		"receita_estimada": 1,
		"nps_medio":        1,
	}
	if granularity == "day" {
		project["day"] = "$_id.day"
	}

	pipeline := analytics.NewPipeline().
		Match(filter.match()).
		AddFields(bson.M{"receita_estimada": analytics.ReceitaExpr()}).
		Group(analytics.DateGroupID(granularity), bson.M{
			"volume_kg":        bson.M{"$sum": "$quantidade_kg"},
			"receita_estimada": bson.M{"$sum": "$receita_estimada"},
			"nps_medio":        bson.M{"$avg": "$nps_0a10"},
		}).
		Sort(sortKeys).
		Project(project).
		Build()

	return aggregate(ctx, s.store.FatosPedidos, pipeline)
}

// Detail returns one order with the technical metrics of its product
// family joined in.
func (s *PedidoService) Detail(ctx context.Context, idPedido string) (map[string]interface{}, error) {
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
