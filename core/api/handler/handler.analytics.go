package handler

import (
	"github.com/joaobaungartner/goncalves-backend/core/analytics"
	"github.com/joaobaungartner/goncalves-backend/core/api/services"
	"github.com/joaobaungartner/goncalves-backend/core/common"

	"github.com/gofiber/fiber/v3"
)

// AnalyticsHandler trata as rotas genéricas de consulta e agregação.
type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

// NewAnalyticsHandler creates the analytics handler.
func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// parseFilterParams lê os filtros padrão presentes em quase todas as
// rotas de analytics.
func parseFilterParams(c fiber.Ctx) analytics.FilterParams {
	return analytics.FilterParams{
		TipoProduto:     c.Query("tipo_produto"),
		MesDoAnoNum:     QueryIntPtr(c, "mes_do_ano_num"),
		Canal:           c.Query("canal"),
		RegiaoDestino:   c.Query("regiao_destino"),
		ClienteSegmento: c.Query("cliente_segmento"),
		DateFrom:        c.Query("date_from"),
		DateTo:          c.Query("date_to"),
		ExtraFilters:    c.Query("extra_filters"),
	}
}

// HandleMeta trata GET /analytics/meta.
func (h *AnalyticsHandler) HandleMeta(c fiber.Ctx) error {
	return JSONResponse(c, common.StatusOK, h.analyticsService.Meta())
}

// HandleData trata GET /analytics/data.
func (h *AnalyticsHandler) HandleData(c fiber.Ctx) error {
	dataset, err := analytics.DatasetFromName(c.Query("collection"))
	if err != nil {
		return err
	}

	q := services.DataQuery{
		Dataset:  dataset,
		Fields:   SplitCSV(c.Query("fields")),
		Filters:  parseFilterParams(c),
		Page:     QueryInt(c, "page", 1, 1, 1<<30),
		PageSize: QueryInt(c, "page_size", 100, 1, 2000),
	}

	out, err := h.analyticsService.Data(c.Context(), q)
	if err != nil {
		return err
	}
	return JSONResponse(c, common.StatusOK, out)
}

// HandleAgg trata GET /analytics/agg.
func (h *AnalyticsHandler) HandleAgg(c fiber.Ctx) error {
	dataset, err := analytics.DatasetFromName(c.Query("collection"))
	if err != nil {
		return err
	}

	groupBy := SplitCSV(c.Query("group_by"))
	if len(groupBy) == 0 {
		return common.NewError(common.ErrCodeValidationInput, "group_by é obrigatório.", common.StatusBadRequest, nil)
	}

	sort, err := QueryEnum(c, "sort", "desc", "asc", "desc")
	if err != nil {
		return err
	}

	q := services.AggQuery{
		Dataset: dataset,
		GroupBy: groupBy,
		Metric:  c.Query("metric", "count"),
		Field:   c.Query("field"),
		Sort:    sort,
		Limit:   QueryInt(c, "limit", 50, 1, 5000),
		Filters: parseFilterParams(c),
	}

	out, err := h.analyticsService.Agg(c.Context(), q)
	if err != nil {
		return err
	}
	return JSONResponse(c, common.StatusOK, out)
}

// HandleDist trata GET /analytics/dist.
func (h *AnalyticsHandler) HandleDist(c fiber.Ctx) error {
	dataset, err := analytics.DatasetFromName(c.Query("collection"))
	if err != nil {
		return err
	}

	kind, err := QueryEnum(c, "kind", "auto", "auto", "numeric", "categorical")
	if err != nil {
		return err
	}

	q := services.DistQuery{
		Dataset: dataset,
		Field:   c.Query("field"),
		Kind:    kind,
		Bins:    QueryInt(c, "bins", 20, 5, 200),
		TopN:    QueryInt(c, "top_n", 30, 5, 500),
		Filters: parseFilterParams(c),
	}

	out, err := h.analyticsService.Dist(c.Context(), q)
	if err != nil {
		return err
	}
	return JSONResponse(c, common.StatusOK, out)
}

// HandleStats trata GET /analytics/stats.
func (h *AnalyticsHandler) HandleStats(c fiber.Ctx) error {
	dataset, err := analytics.DatasetFromName(c.Query("collection"))
	if err != nil {
		return err
	}

	q := services.StatsQuery{
		Dataset: dataset,
		Field:   c.Query("field"),
		TopN:    QueryInt(c, "top_n", 20, 5, 200),
		Filters: parseFilterParams(c),
	}

	out, err := h.analyticsService.Stats(c.Context(), q)
	if err != nil {
		return err
	}
	return JSONResponse(c, common.StatusOK, out)
}

// HandleTimeseries trata GET /analytics/timeseries; sempre sobre
// fatos_pedidos.
func (h *AnalyticsHandler) HandleTimeseries(c fiber.Ctx) error {
	granularity, err := QueryEnum(c, "granularity", "day", "day", "month")
	if err != nil {
		return err
	}

	q := services.TimeseriesQuery{
		Metric:      c.Query("metric", "sum"),
		Field:       c.Query("field"),
		Granularity: granularity,
		Filters:     parseFilterParams(c),
	}

	out, err := h.analyticsService.Timeseries(c.Context(), q)
	if err != nil {
		return err
	}
	return JSONResponse(c, common.StatusOK, out)
}

// HandleJoin trata GET /analytics/join/:id_pedido.
func (h *AnalyticsHandler) HandleJoin(c fiber.Ctx) error {
	out, err := h.analyticsService.Join(c.Context(), c.Params("id_pedido"))
	if err != nil {
		return err
	}
	return JSONResponse(c, common.StatusOK, out)
}
