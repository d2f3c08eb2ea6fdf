package handler

import (
	"github.com/joaobaungartner/goncalves-backend/core/api/services"
	"github.com/joaobaungartner/goncalves-backend/core/common"

	"github.com/gofiber/fiber/v3"
)

// DashboardHandler trata todas as rotas /dashboard/*, organizadas
// pelas seções da interface.
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates the dashboard handler.
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func parseDashboardRange(c fiber.Ctx) services.DashboardRange {
	return services.DashboardRange{
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
	}
}

func parseGranularity(c fiber.Ctx) (string, error) {
	return QueryEnum(c, "granularity", "month", "day", "month")
}

// HandleVisaoGeral trata GET /dashboard/visao-geral.
func (h *DashboardHandler) HandleVisaoGeral(c fiber.Ctx) error {
	out, err := h.dashboardService.VisaoGeral(c.Context(),
		c.Query("date_from"), c.Query("date_to"),
		QueryIntPtr(c, "ano_atual"), QueryIntPtr(c, "mes_atual"))
	if err != nil {
		return err
	}
	return JSONResponse(c, common.StatusOK, out)
}

// HandleSerieFaturamento trata GET /dashboard/visao-geral/serie-faturamento.
func (h *DashboardHandler) HandleSerieFaturamento(c fiber.Ctx) error {
	granularity, err := parseGranularity(c)
	if err != nil {
		return err
	}

	out, err := h.dashboardService.SerieFaturamento(c.Context(), granularity, QueryInt(c, "meses", 12, 1, 24))
	if err != nil {
		return err
	}
	return JSONResponse(c, common.StatusOK, out)
}

// HandleDistribuicaoVendasProduto trata GET /dashboard/visao-geral/distribuicao-vendas-produto.
func (h *DashboardHandler) HandleDistribuicaoVendasProduto(c fiber.Ctx) error {
	out, err := h.dashboardService.DistribuicaoVendasProduto(c.Context(), parseDashboardRange(c), QueryInt(c, "limit", 20, 5, 100))
	if err != nil {
		return err
	}
	return JSONResponse(c, common.StatusOK, out)
}

// HandleFaturamentoPorProduto trata GET /dashboard/financeiro/faturamento-por-produto.
func (h *DashboardHandler) HandleFaturamentoPorProduto(c fiber.Ctx) error {
	out, err := h.dashboardService.FaturamentoPorProduto(c.Context(), parseDashboardRange(c), QueryInt(c, "limit", 50, 5, 200))
	if err != nil {
		return err
	}
	return JSONResponse(c, common.StatusOK, out)
}

// HandleFaturamentoPorCanal trata GET /dashboard/financeiro/faturamento-por-canal.
func (h *DashboardHandler) HandleFaturamentoPorCanal(c fiber.Ctx) error {
	out, err := h.dashboardService.FaturamentoPorCanal(c.Context(), parseDashboardRange(c), QueryInt(c, "limit", 50, 5, 200))
	if err != nil {
		return err
	}
	return JSONResponse(c, common.StatusOK, out)
}

// HandleFaturamentoPorRegiao trata GET /dashboard/financeiro/faturamento-por-regiao.
func (h *DashboardHandler) HandleFaturamentoPorRegiao(c fiber.Ctx) error {
	out, err := h.dashboardService.FaturamentoPorRegiao(c.Context(), parseDashboardRange(c), QueryInt(c, "limit", 50, 5, 200))
	if err != nil {
		return err
	}
	return JSONResponse(c, common.StatusOK, out)
}

// HandlePrecoMedioKg trata GET /dashboard/financeiro/preco-medio-kg.
func (h *DashboardHandler) HandlePrecoMedioKg(c fiber.Ctx) error {
	out, err := h.dashboardService.PrecoMedioKg(c.Context(), parseDashboardRange(c), c.Query("grupo"))
	if err != nil {
		return err
	}
	return JSONResponse(c, common.StatusOK, out)
}

// HandleEvolucaoFaturamento trata GET /dashboard/financeiro/evolucao-faturamento.
func (h *DashboardHandler) HandleEvolucaoFaturamento(c fiber.Ctx) error {
	granularity, err := parseGranularity(c)
	if err != nil {
		return err
	}

	out, err := h.dashboardService.EvolucaoFaturamento(c.Context(), granularity, QueryInt(c, "meses", 12, 1, 36))
	if err != nil {
		return err
	}
	return JSONResponse(c, common.StatusOK, out)
}

// HandleCanalProdutoEmpilhado trata GET /dashboard/financeiro/canal-produto-empilhado.
func (h *DashboardHandler) HandleCanalProdutoEmpilhado(c fiber.Ctx) error {
	out, err := h.dashboardService.CanalProdutoEmpilhado(c.Context(), parseDashboardRange(c))
	if err != nil {
		return err
	}
	return JSONResponse(c, common.StatusOK, out)
}

// HandleVolumePorCanal trata GET /dashboard/vendas/volume-por-canal.
func (h *DashboardHandler) HandleVolumePorCanal(c fiber.Ctx) error {
	out, err := h.dashboardService.VolumePorCanal(c.Context(), parseDashboardRange(c), QueryInt(c, "limit", 50, 5, 200))
	if err != nil {
		return err
	}
	return JSONResponse(c, common.StatusOK, out)
}

// HandleMixProdutos trata GET /dashboard/vendas/mix-produtos.
func (h *DashboardHandler) HandleMixProdutos(c fiber.Ctx) error {
	out, err := h.dashboardService.MixProdutos(c.Context(), parseDashboardRange(c), QueryInt(c, "limit", 30, 5, 100))
	if err != nil {
		return err
	}
	return JSONResponse(c, common.StatusOK, out)
}

// HandleRankingSegmentos trata GET /dashboard/vendas/ranking-segmentos.
func (h *DashboardHandler) HandleRankingSegmentos(c fiber.Ctx) error {
	ordenarPor, err := QueryEnum(c, "ordenar_por", "faturamento", "faturamento", "volume_kg", "num_pedidos")
	if err != nil {
		return err
	}

	out, err := h.dashboardService.RankingSegmentos(c.Context(), parseDashboardRange(c), ordenarPor, QueryInt(c, "limit", 30, 5, 200))
	if err != nil {
		return err
	}
	return JSONResponse(c, common.StatusOK, out)
}

// HandleVendasKPIs trata GET /dashboard/vendas/kpis.
func (h *DashboardHandler) HandleVendasKPIs(c fiber.Ctx) error {
	out, err := h.dashboardService.VendasKPIs(c.Context(), parseDashboardRange(c))
	if err != nil {
		return err
	}
	return JSONResponse(c, common.StatusOK, out)
}

// HandleComparativoProdutos trata GET /dashboard/produtos/comparativo-polpa-manteiga.
func (h *DashboardHandler) HandleComparativoProdutos(c fiber.Ctx) error {
	out, err := h.dashboardService.ComparativoProdutos(c.Context(), parseDashboardRange(c))
	if err != nil {
		return err
	}
	return JSONResponse(c, common.StatusOK, out)
}

// HandleEvolucaoMensalPorProduto trata GET /dashboard/produtos/evolucao-mensal-por-produto.
func (h *DashboardHandler) HandleEvolucaoMensalPorProduto(c fiber.Ctx) error {
	out, err := h.dashboardService.EvolucaoMensalPorProduto(c.Context(), parseDashboardRange(c), QueryInt(c, "meses", 12, 1, 36))
	if err != nil {
		return err
	}
	return JSONResponse(c, common.StatusOK, out)
}

// HandlePerformanceCanal trata GET /dashboard/canais-mercados/performance-canal.
func (h *DashboardHandler) HandlePerformanceCanal(c fiber.Ctx) error {
	out, err := h.dashboardService.PerformanceCanal(c.Context(), parseDashboardRange(c), QueryInt(c, "limit", 30, 5, 200))
	if err != nil {
		return err
	}
	return JSONResponse(c, common.StatusOK, out)
}

// HandlePerformanceRegiao trata GET /dashboard/canais-mercados/performance-regiao.
func (h *DashboardHandler) HandlePerformanceRegiao(c fiber.Ctx) error {
	out, err := h.dashboardService.PerformanceRegiao(c.Context(), parseDashboardRange(c), QueryInt(c, "limit", 50, 5, 200))
	if err != nil {
		return err
	}
	return JSONResponse(c, common.StatusOK, out)
}

// HandleClientesPorSegmento trata GET /dashboard/clientes/por-segmento.
func (h *DashboardHandler) HandleClientesPorSegmento(c fiber.Ctx) error {
	out, err := h.dashboardService.ClientesPorSegmento(c.Context(), parseDashboardRange(c), QueryInt(c, "limit", 30, 5, 200))
	if err != nil {
		return err
	}
	return JSONResponse(c, common.StatusOK, out)
}

// HandleNPS trata GET /dashboard/qualidade-satisfacao/nps.
func (h *DashboardHandler) HandleNPS(c fiber.Ctx) error {
	out, err := h.dashboardService.NPS(c.Context(), parseDashboardRange(c), QueryBool(c, "por_produto", false))
	if err != nil {
		return err
	}
	return JSONResponse(c, common.StatusOK, out)
}

// HandleNPSSerie trata GET /dashboard/qualidade-satisfacao/nps-serie.
func (h *DashboardHandler) HandleNPSSerie(c fiber.Ctx) error {
	granularity, err := parseGranularity(c)
	if err != nil {
		return err
	}

	out, err := h.dashboardService.NPSSerie(c.Context(), granularity, QueryInt(c, "meses", 12, 1, 36))
	if err != nil {
		return err
	}
	return JSONResponse(c, common.StatusOK, out)
}

// HandleQualidadePorProduto trata GET /dashboard/qualidade-satisfacao/qualidade-por-produto.
func (h *DashboardHandler) HandleQualidadePorProduto(c fiber.Ctx) error {
	out, err := h.dashboardService.QualidadePorProduto(c.Context(), parseDashboardRange(c))
	if err != nil {
		return err
	}
	return JSONResponse(c, common.StatusOK, out)
}

// HandleLogisticaResumo trata GET /dashboard/logistica-custos/resumo.
func (h *DashboardHandler) HandleLogisticaResumo(c fiber.Ctx) error {
	out, err := h.dashboardService.LogisticaResumo(c.Context(), parseDashboardRange(c))
	if err != nil {
		return err
	}
	return JSONResponse(c, common.StatusOK, out)
}

// HandleLogisticaEvolucaoCusto trata GET /dashboard/logistica-custos/evolucao-custo.
func (h *DashboardHandler) HandleLogisticaEvolucaoCusto(c fiber.Ctx) error {
	granularity, err := parseGranularity(c)
	if err != nil {
		return err
	}

	out, err := h.dashboardService.LogisticaEvolucaoCusto(c.Context(), granularity, QueryInt(c, "meses", 12, 1, 36))
	if err != nil {
		return err
	}
	return JSONResponse(c, common.StatusOK, out)
}

// HandleLogisticaVsVolume trata GET /dashboard/logistica-custos/logistica-vs-volume.
func (h *DashboardHandler) HandleLogisticaVsVolume(c fiber.Ctx) error {
	out, err := h.dashboardService.LogisticaVsVolume(c.Context(), parseDashboardRange(c), QueryInt(c, "limit", 100, 10, 500))
	if err != nil {
		return err
	}
	return JSONResponse(c, common.StatusOK, out)
}
