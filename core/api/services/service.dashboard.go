package services

import (
	"context"
	"math"
	"time"

	"github.com/joaobaungartner/goncalves-backend/core/analytics"
	"github.com/joaobaungartner/goncalves-backend/core/database"

	"go.mongodb.org/mongo-driver/bson"
)

// DashboardService serves the sidebar dashboard sections. Every
// method aggregates fatos_pedidos, the logistics and quality sections
// join polpa_metricas in.
type DashboardService struct {
	store *database.Store
}

// NewDashboardService creates the dashboard service.
func NewDashboardService(store *database.Store) *DashboardService {
	return &DashboardService{store: store}
}

// DashboardRange is the optional date window most dashboard endpoints
// accept.
type DashboardRange struct {
	DateFrom string
	DateTo   string
}

func (r DashboardRange) match() (bson.M, error) {
	return analytics.BuildMatch(analytics.DatasetFatos, analytics.FilterParams{
		DateFrom: r.DateFrom,
		DateTo:   r.DateTo,
	})
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case nil:
		return 0, false
	default:
		return 0, false
	}
}

// VariationPct computes the percentage variation between two KPI
// values, nil when the previous value is missing or zero. The result
// is rounded to two decimals.
func VariationPct(current, prev interface{}) *float64 {
	p, ok := toFloat(prev)
	if !ok || p == 0 {
		return nil
	}
	c, _ := toFloat(current)
	v := math.Round((c-p)/p*100*100) / 100
	return &v
}

// monthWindow covers one calendar month, end inclusive.
func monthWindow(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Microsecond)
	return start, end
}

// previousWindow mirrors the window immediately before [start, end],
// with the same length.
func previousWindow(start, end time.Time) (time.Time, time.Time) {
	delta := end.Sub(start)
	endPrev := start.Add(-time.Microsecond)
	startPrev := endPrev.Add(-delta)
	return startPrev, endPrev
}

var visaoGeralZero = bson.M{
	"faturamento_total": 0,
	"volume_kg":         0,
	"num_pedidos":       0,
	"ticket_medio":      nil,
	"nps_medio":         nil,
}

func (s *DashboardService) kpisForWindow(ctx context.Context, start, end time.Time) (bson.M, error) {
	pipeline := analytics.NewPipeline().
		Match(bson.M{"data_pedido": bson.M{"$gte": start, "$lte": end}}).
		AddFields(bson.M{"receita_estimada": analytics.ReceitaExpr()}).
		Group(nil, bson.M{
			"faturamento_total": bson.M{"$sum": "$receita_estimada"},
			"volume_kg":         bson.M{"$sum": "$quantidade_kg"},
			"num_pedidos":       bson.M{"$sum": 1},
			"nps_medio":         bson.M{"$avg": "$nps_0a10"},
		}).
		AddFields(bson.M{
			"ticket_medio": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$num_pedidos", 0}},
				nil,
				bson.M{"$divide": bson.A{"$faturamento_total", "$num_pedidos"}},
			}},
		}).
		Project(bson.M{"_id": 0}).
		Build()

	rows, err := aggregate(ctx, s.store.FatosPedidos, pipeline)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return visaoGeralZero, nil
	}
	return rows[0], nil
}

// lastMonthWithData finds the newest data_pedido in the collection.
func (s *DashboardService) lastMonthWithData(ctx context.Context) (int, int, bool) {
	pipeline := analytics.NewPipeline().
		Match(bson.M{"data_pedido": bson.M{"$ne": nil}}).
		Group(nil, bson.M{"max_date": bson.M{"$max": "$data_pedido"}}).
		Build()

	rows, err := aggregate(ctx, s.store.FatosPedidos, pipeline)
	if err != nil || len(rows) == 0 {
		return 0, 0, false
	}

	switch v := rows[0]["max_date"].(type) {
	case time.Time:
		return v.Year(), int(v.Month()), true
	default:
		return 0, 0, false
	}
}

// VisaoGeral compares the current month KPIs against the previous
// month. With no explicit window, the current month is the last month
// with data.
func (s *DashboardService) VisaoGeral(ctx context.Context, dateFrom, dateTo string, anoAtual, mesAtual *int) (map[string]interface{}, error) {
	var startCurrent, endCurrent, startPrev, endPrev time.Time
	var ano, mes int

	if dateFrom != "" && dateTo != "" {
		from, err := analytics.BuildMatch(analytics.DatasetFatos, analytics.FilterParams{DateFrom: dateFrom, DateTo: dateTo})
		if err != nil {
			return nil, err
		}
		rangeFilter := from["data_pedido"].(bson.M)
		startCurrent = rangeFilter["$gte"].(time.Time)
		endCurrent = rangeFilter["$lte"].(time.Time)
		startPrev, endPrev = previousWindow(startCurrent, endCurrent)
		ano = startCurrent.Year()
		mes = int(startCurrent.Month())
	} else {
		now := time.Now().UTC()
		ano, mes = now.Year(), int(now.Month())
		if anoAtual != nil && mesAtual != nil {
			ano, mes = *anoAtual, *mesAtual
		} else if y, m, ok := s.lastMonthWithData(ctx); ok {
			ano, mes = y, m
		}

		startCurrent, endCurrent = monthWindow(ano, mes)
		startPrev, endPrev = previousWindow(startCurrent, endCurrent)
		if mes == 1 {
			startPrev, endPrev = monthWindow(ano-1, 12)
		} else {
			startPrev, endPrev = monthWindow(ano, mes-1)
		}
	}

	current, err := s.kpisForWindow(ctx, startCurrent, endCurrent)
	if err != nil {
		return nil, err
	}
	prev, err := s.kpisForWindow(ctx, startPrev, endPrev)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"mes_atual":         map[string]interface{}{"year": ano, "month": mes},
		"kpis_atual":        current,
		"kpis_mes_anterior": prev,
		"variacao_pct": map[string]interface{}{
			"faturamento":  VariationPct(current["faturamento_total"], prev["faturamento_total"]),
			"volume_kg":    VariationPct(current["volume_kg"], prev["volume_kg"]),
			"num_pedidos":  VariationPct(current["num_pedidos"], prev["num_pedidos"]),
			"ticket_medio": VariationPct(current["ticket_medio"], prev["ticket_medio"]),
			"nps_medio":    VariationPct(current["nps_medio"], prev["nps_medio"]),
		},
	}, nil
}

// trailingMonthsMatch approximates the last N months window.
func trailingMonthsMatch(meses int) bson.M {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -meses*31)
	return bson.M{"data_pedido": bson.M{"$gte": start, "$lte": end}}
}

// revenueSeries is the shared shape of the faturamento time series
// used by visão geral and financeiro.
func (s *DashboardService) revenueSeries(ctx context.Context, granularity string, meses int) (map[string]interface{}, error) {
	project := bson.M{
		"_id":         0,
		"year":        "$_id.year",
		"month":       "$_id.month",
		"faturamento": 1,
	}
	if granularity == "day" {
		project["day"] = "$_id.day"
	}

	pipeline := analytics.NewPipeline().
		Match(trailingMonthsMatch(meses)).
		AddFields(bson.M{"receita_estimada": analytics.ReceitaExpr()}).
		Group(analytics.DateGroupID(granularity), bson.M{"faturamento": bson.M{"$sum": "$receita_estimada"}}).
		Sort(analytics.DateSort(granularity)).
		Project(project).
		Build()

	items, err := aggregate(ctx, s.store.FatosPedidos, pipeline)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"granularity": granularity, "items": items}, nil
}

// SerieFaturamento feeds the visão geral revenue chart.
func (s *DashboardService) SerieFaturamento(ctx context.Context, granularity string, meses int) (map[string]interface{}, error) {
	return s.revenueSeries(ctx, granularity, meses)
}

// EvolucaoFaturamento feeds the financeiro revenue-over-time line.
func (s *DashboardService) EvolucaoFaturamento(ctx context.Context, granularity string, meses int) (map[string]interface{}, error) {
	return s.revenueSeries(ctx, granularity, meses)
}

// DistribuicaoVendasProduto breaks revenue and volume down per
// product for the donut/treemap.
func (s *DashboardService) DistribuicaoVendasProduto(ctx context.Context, rng DashboardRange, limit int) (map[string]interface{}, error) {
	match, err := rng.match()
	if err != nil {
		return nil, err
	}

	pipeline := analytics.NewPipeline().
		Match(match).
		AddFields(bson.M{"receita_estimada": analytics.ReceitaExpr()}).
		Group("$tipo_produto", bson.M{
			"faturamento": bson.M{"$sum": "$receita_estimada"},
			"volume_kg":   bson.M{"$sum": "$quantidade_kg"},
		}).
		Sort(bson.D{{Key: "faturamento", Value: -1}}).
		Limit(limit).
		Project(bson.M{"_id": 0, "produto": "$_id", "faturamento": 1, "volume_kg": 1}).
		Build()

	items, err := aggregate(ctx, s.store.FatosPedidos, pipeline)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"items": items}, nil
}

// faturamentoPorCampo groups revenue by one categorical field.
func (s *DashboardService) faturamentoPorCampo(ctx context.Context, rng DashboardRange, field, outKey string, limit int) (map[string]interface{}, error) {
	match, err := rng.match()
	if err != nil {
		return nil, err
	}

	pipeline := analytics.NewPipeline().
		Match(match).
		AddFields(bson.M{"receita_estimada": analytics.ReceitaExpr()}).
		Group("$"+field, bson.M{"faturamento": bson.M{"$sum": "$receita_estimada"}}).
		Sort(bson.D{{Key: "faturamento", Value: -1}}).
		Limit(limit).
		Project(bson.M{"_id": 0, outKey: "$_id", "faturamento": 1}).
		Build()

	items, err := aggregate(ctx, s.store.FatosPedidos, pipeline)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"items": items}, nil
}

// FaturamentoPorProduto - financeiro bar chart per product.
func (s *DashboardService) FaturamentoPorProduto(ctx context.Context, rng DashboardRange, limit int) (map[string]interface{}, error) {
	return s.faturamentoPorCampo(ctx, rng, "tipo_produto", "produto", limit)
}

// FaturamentoPorCanal - financeiro bar chart per channel.
func (s *DashboardService) FaturamentoPorCanal(ctx context.Context, rng DashboardRange, limit int) (map[string]interface{}, error) {
	return s.faturamentoPorCampo(ctx, rng, "canal", "canal", limit)
}

// FaturamentoPorRegiao - financeiro bar chart per region.
func (s *DashboardService) FaturamentoPorRegiao(ctx context.Context, rng DashboardRange, limit int) (map[string]interface{}, error) {
	return s.faturamentoPorCampo(ctx, rng, "regiao_destino", "regiao", limit)
}

// precoMedioGroupFields maps the grupo parameter onto fatos fields.
var precoMedioGroupFields = map[string]string{
	"produto": "tipo_produto",
	"canal":   "canal",
	"regiao":  "regiao_destino",
}

// PrecoMedioKg computes the average price per kg, optionally broken
// down by product, channel or region.
func (s *DashboardService) PrecoMedioKg(ctx context.Context, rng DashboardRange, grupo string) (map[string]interface{}, error) {
	match, err := rng.match()
	if err != nil {
		return nil, err
	}

	if field, ok := precoMedioGroupFields[grupo]; ok {
		pipeline := analytics.NewPipeline().
			Match(match).
			Group("$"+field, bson.M{
				"preco_medio_kg": bson.M{"$avg": "$preco_unitario_brl_kg"},
				"volume_kg":      bson.M{"$sum": "$quantidade_kg"},
			}).
			Sort(bson.D{{Key: "preco_medio_kg", Value: -1}}).
			Project(bson.M{"_id": 0, "grupo": "$_id", "preco_medio_kg": 1, "volume_kg": 1}).
			Build()

		items, err := aggregate(ctx, s.store.FatosPedidos, pipeline)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"agrupado_por": grupo, "items": items}, nil
	}

	pipeline := analytics.NewPipeline().
		Match(match).
		Group(nil, bson.M{"preco_medio_kg": bson.M{"$avg": "$preco_unitario_brl_kg"}}).
		Project(bson.M{"_id": 0}).
		Build()

	rows, err := aggregate(ctx, s.store.FatosPedidos, pipeline)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return map[string]interface{}{"preco_medio_kg": nil}, nil
	}
	return map[string]interface{}{"preco_medio_kg": rows[0]["preco_medio_kg"]}, nil
}

// CanalProdutoEmpilhado breaks revenue down per channel and product
// for the stacked bar chart.
func (s *DashboardService) CanalProdutoEmpilhado(ctx context.Context, rng DashboardRange) (map[string]interface{}, error) {
	match, err := rng.match()
	if err != nil {
		return nil, err
	}

	pipeline := analytics.NewPipeline().
		Match(match).
		AddFields(bson.M{"receita_estimada": analytics.ReceitaExpr()}).
		Group(bson.M{"canal": "$canal", "produto": "$tipo_produto"}, bson.M{
			"faturamento": bson.M{"$sum": "$receita_estimada"},
		}).
		Sort(bson.D{{Key: "_id.canal", Value: 1}, {Key: "faturamento", Value: -1}}).
		Project(bson.M{"_id": 0, "canal": "$_id.canal", "produto": "$_id.produto", "faturamento": 1}).
		Build()

	items, err := aggregate(ctx, s.store.FatosPedidos, pipeline)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"items": items}, nil
}

// VolumePorCanal - vendas volume per channel.
func (s *DashboardService) VolumePorCanal(ctx context.Context, rng DashboardRange, limit int) (map[string]interface{}, error) {
	match, err := rng.match()
	if err != nil {
		return nil, err
	}

	pipeline := analytics.NewPipeline().
		Match(match).
		Group("$canal", bson.M{
			"volume_kg":   bson.M{"$sum": "$quantidade_kg"},
			"num_pedidos": bson.M{"$sum": 1},
		}).
		Sort(bson.D{{Key: "volume_kg", Value: -1}}).
		Limit(limit).
		Project(bson.M{"_id": 0, "canal": "$_id", "volume_kg": 1, "num_pedidos": 1}).
		Build()

	items, err := aggregate(ctx, s.store.FatosPedidos, pipeline)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"items": items}, nil
}

// MixProdutos - product mix with volume, revenue and order count.
func (s *DashboardService) MixProdutos(ctx context.Context, rng DashboardRange, limit int) (map[string]interface{}, error) {
	match, err := rng.match()
	if err != nil {
		return nil, err
	}

	pipeline := analytics.NewPipeline().
		Match(match).
		AddFields(bson.M{"receita_estimada": analytics.ReceitaExpr()}).
		Group("$tipo_produto", bson.M{
			"volume_kg":   bson.M{"$sum": "$quantidade_kg"},
			"faturamento": bson.M{"$sum": "$receita_estimada"},
			"num_pedidos": bson.M{"$sum": 1},
		}).
		Sort(bson.D{{Key: "volume_kg", Value: -1}}).
		Limit(limit).
		Project(bson.M{"_id": 0, "produto": "$_id", "volume_kg": 1, "faturamento": 1, "num_pedidos": 1}).
		Build()

	items, err := aggregate(ctx, s.store.FatosPedidos, pipeline)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"items": items}, nil
}

// RankingSegmentos ranks customer segments by the chosen measure.
func (s *DashboardService) RankingSegmentos(ctx context.Context, rng DashboardRange, ordenarPor string, limit int) (map[string]interface{}, error) {
	match, err := rng.match()
	if err != nil {
		return nil, err
	}

	pipeline := analytics.NewPipeline().
		Match(match).
		AddFields(bson.M{"receita_estimada": analytics.ReceitaExpr()}).
		Group("$cliente_segmento", bson.M{
			"faturamento": bson.M{"$sum": "$receita_estimada"},
			"volume_kg":   bson.M{"$sum": "$quantidade_kg"},
			"num_pedidos": bson.M{"$sum": 1},
		}).
		Sort(bson.D{{Key: ordenarPor, Value: -1}}).
		Limit(limit).
		Project(bson.M{"_id": 0, "segmento": "$_id", "faturamento": 1, "volume_kg": 1, "num_pedidos": 1}).
		Build()

	items, err := aggregate(ctx, s.store.FatosPedidos, pipeline)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"ordenar_por": ordenarPor, "items": items}, nil
}

// VendasKPIs sums volume and orders globally and per channel with the
// channel's participation percentages.
func (s *DashboardService) VendasKPIs(ctx context.Context, rng DashboardRange) (map[string]interface{}, error) {
	match, err := rng.match()
	if err != nil {
		return nil, err
	}

	totalPipeline := analytics.NewPipeline().
		Match(match).
		Group(nil, bson.M{
			"volume_kg":   bson.M{"$sum": "$quantidade_kg"},
			"num_pedidos": bson.M{"$sum": 1},
		}).
		Project(bson.M{"_id": 0}).
		Build()

	canalPipeline := analytics.NewPipeline().
		Match(match).
		Group("$canal", bson.M{
			"volume_kg":   bson.M{"$sum": "$quantidade_kg"},
			"num_pedidos": bson.M{"$sum": 1},
		}).
		Project(bson.M{"_id": 0, "canal": "$_id", "volume_kg": 1, "num_pedidos": 1}).
		Build()

	totalRows, err := aggregate(ctx, s.store.FatosPedidos, totalPipeline)
	if err != nil {
		return nil, err
	}
	porCanal, err := aggregate(ctx, s.store.FatosPedidos, canalPipeline)
	if err != nil {
		return nil, err
	}

	tot := bson.M{"volume_kg": 0, "num_pedidos": 0}
	if len(totalRows) > 0 {
		tot = totalRows[0]
	}

	totVolume, _ := toFloat(tot["volume_kg"])
	totPedidos, _ := toFloat(tot["num_pedidos"])

	for _, c := range porCanal {
		c["participacao_volume_pct"] = participationPct(c["volume_kg"], totVolume)
		c["participacao_pedidos_pct"] = participationPct(c["num_pedidos"], totPedidos)
	}

	return map[string]interface{}{"totais": tot, "por_canal": porCanal}, nil
}

func participationPct(part interface{}, total float64) float64 {
	if total == 0 {
		return 0
	}
	p, _ := toFloat(part)
	return math.Round(p/total*100*100) / 100
}

// ComparativoProdutos compares polpa vs manteiga with a derived
// average price per kg.
func (s *DashboardService) ComparativoProdutos(ctx context.Context, rng DashboardRange) (map[string]interface{}, error) {
	match, err := rng.match()
	if err != nil {
		return nil, err
	}

	pipeline := analytics.NewPipeline().
		Match(match).
		AddFields(bson.M{"receita_estimada": analytics.ReceitaExpr()}).
		Group("$tipo_produto", bson.M{
			"volume_kg":   bson.M{"$sum": "$quantidade_kg"},
			"faturamento": bson.M{"$sum": "$receita_estimada"},
			"num_pedidos": bson.M{"$sum": 1},
		}).
		AddFields(bson.M{
			"preco_medio_kg": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$volume_kg", 0}},
				nil,
				bson.M{"$divide": bson.A{"$faturamento", "$volume_kg"}},
			}},
		}).
		Sort(bson.D{{Key: "faturamento", Value: -1}}).
		Project(bson.M{"_id": 0, "produto": "$_id", "volume_kg": 1, "faturamento": 1, "num_pedidos": 1, "preco_medio_kg": 1}).
		Build()

	items, err := aggregate(ctx, s.store.FatosPedidos, pipeline)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"items": items}, nil
}

// EvolucaoMensalPorProduto returns monthly volume and revenue per
// product. Without an explicit window it covers the trailing meses.
func (s *DashboardService) EvolucaoMensalPorProduto(ctx context.Context, rng DashboardRange, meses int) (map[string]interface{}, error) {
	var match bson.M
	if rng.DateFrom == "" || rng.DateTo == "" {
		match = trailingMonthsMatch(meses)
	} else {
		var err error
		match, err = rng.match()
		if err != nil {
			return nil, err
		}
	}

	pipeline := analytics.NewPipeline().
		Match(match).
		AddFields(bson.M{"receita_estimada": analytics.ReceitaExpr()}).
		Group(bson.M{
			"year":    bson.M{"$year": "$data_pedido"},
			"month":   bson.M{"$month": "$data_pedido"},
			"produto": "$tipo_produto",
		}, bson.M{
			"volume_kg":   bson.M{"$sum": "$quantidade_kg"},
			"faturamento": bson.M{"$sum": "$receita_estimada"},
		}).
		Sort(bson.D{{Key: "_id.year", Value: 1}, {Key: "_id.month", Value: 1}}).
		Project(bson.M{
			"_id":         0,
			"year":        "$_id.year",
			"month":       "$_id.month",
			"produto":     "$_id.produto",
			"volume_kg":   1,
			"faturamento": 1,
		}).
		Build()

	items, err := aggregate(ctx, s.store.FatosPedidos, pipeline)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"items": items}, nil
}

// performancePorCampo groups revenue, volume and orders by a field.
func (s *DashboardService) performancePorCampo(ctx context.Context, rng DashboardRange, field, outKey string, limit int) (map[string]interface{}, error) {
	match, err := rng.match()
	if err != nil {
		return nil, err
	}

	pipeline := analytics.NewPipeline().
		Match(match).
		AddFields(bson.M{"receita_estimada": analytics.ReceitaExpr()}).
		Group("$"+field, bson.M{
			"faturamento": bson.M{"$sum": "$receita_estimada"},
			"volume_kg":   bson.M{"$sum": "$quantidade_kg"},
			"num_pedidos": bson.M{"$sum": 1},
		}).
		Sort(bson.D{{Key: "faturamento", Value: -1}}).
		Limit(limit).
		Project(bson.M{"_id": 0, outKey: "$_id", "faturamento": 1, "volume_kg": 1, "num_pedidos": 1}).
		Build()

	items, err := aggregate(ctx, s.store.FatosPedidos, pipeline)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"items": items}, nil
}

// PerformanceCanal - canais & mercados per channel.
func (s *DashboardService) PerformanceCanal(ctx context.Context, rng DashboardRange, limit int) (map[string]interface{}, error) {
	return s.performancePorCampo(ctx, rng, "canal", "canal", limit)
}

// PerformanceRegiao - canais & mercados per region.
func (s *DashboardService) PerformanceRegiao(ctx context.Context, rng DashboardRange, limit int) (map[string]interface{}, error) {
	return s.performancePorCampo(ctx, rng, "regiao_destino", "regiao", limit)
}

// ClientesPorSegmento aggregates revenue, volume, orders and average
// ticket per customer segment.
func (s *DashboardService) ClientesPorSegmento(ctx context.Context, rng DashboardRange, limit int) (map[string]interface{}, error) {
	match, err := rng.match()
	if err != nil {
		return nil, err
	}

	pipeline := analytics.NewPipeline().
		Match(match).
		AddFields(bson.M{"receita_estimada": analytics.ReceitaExpr()}).
		Group("$cliente_segmento", bson.M{
			"faturamento": bson.M{"$sum": "$receita_estimada"},
			"volume_kg":   bson.M{"$sum": "$quantidade_kg"},
			"num_pedidos": bson.M{"$sum": 1},
		}).
		AddFields(bson.M{
			"ticket_medio": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$num_pedidos", 0}},
				nil,
				bson.M{"$divide": bson.A{"$faturamento", "$num_pedidos"}},
			}},
		}).
		Sort(bson.D{{Key: "faturamento", Value: -1}}).
		Limit(limit).
		Project(bson.M{"_id": 0, "segmento": "$_id", "faturamento": 1, "volume_kg": 1, "num_pedidos": 1, "ticket_medio": 1}).
		Build()

	items, err := aggregate(ctx, s.store.FatosPedidos, pipeline)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"items": items}, nil
}

// NPS returns the average NPS, globally or per product.
func (s *DashboardService) NPS(ctx context.Context, rng DashboardRange, porProduto bool) (map[string]interface{}, error) {
	match, err := rng.match()
	if err != nil {
		return nil, err
	}

	if porProduto {
		pipeline := analytics.NewPipeline().
			Match(match).
			Group("$tipo_produto", bson.M{
				"nps_medio":      bson.M{"$avg": "$nps_0a10"},
				"num_avaliacoes": bson.M{"$sum": 1},
			}).
			Sort(bson.D{{Key: "nps_medio", Value: -1}}).
			Project(bson.M{"_id": 0, "produto": "$_id", "nps_medio": 1, "num_avaliacoes": 1}).
			Build()

		items, err := aggregate(ctx, s.store.FatosPedidos, pipeline)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"por_produto": true, "items": items}, nil
	}

	pipeline := analytics.NewPipeline().
		Match(match).
		Group(nil, bson.M{
			"nps_medio":      bson.M{"$avg": "$nps_0a10"},
			"num_avaliacoes": bson.M{"$sum": 1},
		}).
		Project(bson.M{"_id": 0}).
		Build()

	rows, err := aggregate(ctx, s.store.FatosPedidos, pipeline)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return map[string]interface{}{"nps_medio": nil, "num_avaliacoes": 0}, nil
	}
	return map[string]interface{}{"nps_medio": rows[0]["nps_medio"], "num_avaliacoes": rows[0]["num_avaliacoes"]}, nil
}

// NPSSerie returns NPS over time.
func (s *DashboardService) NPSSerie(ctx context.Context, granularity string, meses int) (map[string]interface{}, error) {
	project := bson.M{
		"_id":       0,
		"year":      "$_id.year",
		"month":     "$_id.month",
		"nps_medio": 1,
	}
	if granularity == "day" {
		project["day"] = "$_id.day"
	}

	pipeline := analytics.NewPipeline().
		Match(trailingMonthsMatch(meses)).
		Group(analytics.DateGroupID(granularity), bson.M{"nps_medio": bson.M{"$avg": "$nps_0a10"}}).
		Sort(analytics.DateSort(granularity)).
		Project(project).
		Build()

	items, err := aggregate(ctx, s.store.FatosPedidos, pipeline)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"granularity": granularity, "items": items}, nil
}

// polpaRegex matches any polpa product family.
var polpaRegex = bson.M{"$regex": "Polpa", "$options": "i"}

// QualidadePorProduto joins polpa_metricas in and averages the
// quality index per polpa product.
func (s *DashboardService) QualidadePorProduto(ctx context.Context, rng DashboardRange) (map[string]interface{}, error) {
	match, err := rng.match()
	if err != nil {
		return nil, err
	}
	match["tipo_produto"] = polpaRegex

	pipeline := analytics.NewPipeline().
		Match(match).
		Lookup(database.CollPolpaMetricas, "id_pedido", "id_pedido", "polpa").
		Unwind("$polpa", false).
		Group("$tipo_produto", bson.M{
			"indice_qualidade_medio": bson.M{"$avg": "$polpa.indice_qualidade_1a10"},
			"num_pedidos":            bson.M{"$sum": 1},
		}).
		Sort(bson.D{{Key: "indice_qualidade_medio", Value: -1}}).
		Project(bson.M{"_id": 0, "produto": "$_id", "indice_qualidade_medio": 1, "num_pedidos": 1}).
		Build()

	items, err := aggregate(ctx, s.store.FatosPedidos, pipeline)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"items": items}, nil
}

// LogisticaResumo totals logistics cost against revenue for polpa
// orders.
func (s *DashboardService) LogisticaResumo(ctx context.Context, rng DashboardRange) (map[string]interface{}, error) {
	match, err := rng.match()
	if err != nil {
		return nil, err
	}
	match["tipo_produto"] = polpaRegex

	pipeline := analytics.NewPipeline().
		Match(match).
		Lookup(database.CollPolpaMetricas, "id_pedido", "id_pedido", "polpa").
		Unwind("$polpa", false).
		AddFields(bson.M{"receita_estimada": analytics.ReceitaExpr()}).
		Group(nil, bson.M{
			"custo_logistico_total": bson.M{"$sum": "$polpa.logistica_brl"},
			"receita_total":         bson.M{"$sum": "$receita_estimada"},
			"num_pedidos":           bson.M{"$sum": 1},
		}).
		AddFields(bson.M{
			"custo_logistico_medio": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$num_pedidos", 0}},
				nil,
				bson.M{"$divide": bson.A{"$custo_logistico_total", "$num_pedidos"}},
			}},
			"custo_vs_receita_pct": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$receita_total", 0}},
				nil,
				bson.M{"$multiply": bson.A{bson.M{"$divide": bson.A{"$custo_logistico_total", "$receita_total"}}, 100}},
			}},
		}).
		Project(bson.M{"_id": 0}).
		Build()

	rows, err := aggregate(ctx, s.store.FatosPedidos, pipeline)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return map[string]interface{}{
			"custo_logistico_total": 0,
			"custo_logistico_medio": nil,
			"receita_total":         0,
			"custo_vs_receita_pct":  nil,
			"num_pedidos":           0,
		}, nil
	}
	return rows[0], nil
}

// LogisticaEvolucaoCusto returns logistics cost over time for polpa
// orders.
func (s *DashboardService) LogisticaEvolucaoCusto(ctx context.Context, granularity string, meses int) (map[string]interface{}, error) {
	match := trailingMonthsMatch(meses)
	match["tipo_produto"] = polpaRegex

	project := bson.M{
		"_id":             0,
		"year":            "$_id.year",
		"month":           "$_id.month",
		"custo_logistico": 1,
		"num_pedidos":     1,
	}
	if granularity == "day" {
		project["day"] = "$_id.day"
	}

	pipeline := analytics.NewPipeline().
		Match(match).
		Lookup(database.CollPolpaMetricas, "id_pedido", "id_pedido", "polpa").
		Unwind("$polpa", false).
		Group(analytics.DateGroupID(granularity), bson.M{
			"custo_logistico": bson.M{"$sum": "$polpa.logistica_brl"},
			"num_pedidos":     bson.M{"$sum": 1},
		}).
		Sort(analytics.DateSort(granularity)).
		Project(project).
		Build()

	items, err := aggregate(ctx, s.store.FatosPedidos, pipeline)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"granularity": granularity, "items": items}, nil
}

// LogisticaVsVolume returns per-order logistics cost against volume
// for the scatter plot.
func (s *DashboardService) LogisticaVsVolume(ctx context.Context, rng DashboardRange, limit int) (map[string]interface{}, error) {
	match, err := rng.match()
	if err != nil {
		return nil, err
	}
	match["tipo_produto"] = polpaRegex

	pipeline := analytics.NewPipeline().
		Match(match).
		Lookup(database.CollPolpaMetricas, "id_pedido", "id_pedido", "polpa").
		Unwind("$polpa", false).
		Project(bson.M{
			"_id":              0,
			"id_pedido":        1,
			"volume_kg":        "$quantidade_kg",
			"custo_logistico":  "$polpa.logistica_brl",
			"receita_estimada": analytics.ReceitaExpr(),
		}).
		Limit(limit).
		Build()

	items, err := aggregate(ctx, s.store.FatosPedidos, pipeline)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"items": items}, nil
}
