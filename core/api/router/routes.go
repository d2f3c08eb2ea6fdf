package router

// Registro central das rotas da API. As rotas de negócio exigem
// Bearer token; criar-usuario e login ficam abertas.

import (
	"github.com/joaobaungartner/goncalves-backend/core/api/handler"
	"github.com/joaobaungartner/goncalves-backend/core/api/middleware"

	"github.com/gofiber/fiber/v3"
)

// Handlers agrupa os handlers da aplicação para o registro de rotas.
type Handlers struct {
	User      *handler.UserHandler
	Analytics *handler.AnalyticsHandler
	Pedido    *handler.PedidoHandler
	Dashboard *handler.DashboardHandler
	Upload    *handler.UploadHandler
	Auth      *middleware.AuthMiddleware
}

// Register liga cada rota ao seu handler.
func Register(app *fiber.App, h Handlers) {
	auth := app.Group("/auth")
	auth.Post("/criar-usuario", h.User.HandleCreate)
	auth.Post("/login", h.User.HandleLogin)
	auth.Get("/me", h.User.HandleMe, h.Auth.RequireAuth)

	pedidos := app.Group("/pedidos", h.Auth.RequireAuth)
	pedidos.Get("", h.Pedido.HandleList)
	pedidos.Get("/kpis", h.Pedido.HandleKPIs)
	pedidos.Get("/timeseries", h.Pedido.HandleTimeseries)
	pedidos.Get("/:id_pedido", h.Pedido.HandleDetail)

	analytics := app.Group("/analytics", h.Auth.RequireAuth)
	analytics.Get("/meta", h.Analytics.HandleMeta)
	analytics.Get("/data", h.Analytics.HandleData)
	analytics.Get("/agg", h.Analytics.HandleAgg)
	analytics.Get("/dist", h.Analytics.HandleDist)
	analytics.Get("/stats", h.Analytics.HandleStats)
	analytics.Get("/timeseries", h.Analytics.HandleTimeseries)
	analytics.Get("/join/:id_pedido", h.Analytics.HandleJoin)

	dashboard := app.Group("/dashboard", h.Auth.RequireAuth)
	dashboard.Get("/visao-geral", h.Dashboard.HandleVisaoGeral)
	dashboard.Get("/visao-geral/serie-faturamento", h.Dashboard.HandleSerieFaturamento)
	dashboard.Get("/visao-geral/distribuicao-vendas-produto", h.Dashboard.HandleDistribuicaoVendasProduto)

	dashboard.Get("/financeiro/faturamento-por-produto", h.Dashboard.HandleFaturamentoPorProduto)
	dashboard.Get("/financeiro/faturamento-por-canal", h.Dashboard.HandleFaturamentoPorCanal)
	dashboard.Get("/financeiro/faturamento-por-regiao", h.Dashboard.HandleFaturamentoPorRegiao)
	dashboard.Get("/financeiro/preco-medio-kg", h.Dashboard.HandlePrecoMedioKg)
	dashboard.Get("/financeiro/evolucao-faturamento", h.Dashboard.HandleEvolucaoFaturamento)
	dashboard.Get("/financeiro/canal-produto-empilhado", h.Dashboard.HandleCanalProdutoEmpilhado)

	dashboard.Get("/vendas/volume-por-canal", h.Dashboard.HandleVolumePorCanal)
	dashboard.Get("/vendas/mix-produtos", h.Dashboard.HandleMixProdutos)
	dashboard.Get("/vendas/ranking-segmentos", h.Dashboard.HandleRankingSegmentos)
	dashboard.Get("/vendas/kpis", h.Dashboard.HandleVendasKPIs)

	dashboard.Get("/produtos/comparativo-polpa-manteiga", h.Dashboard.HandleComparativoProdutos)
	dashboard.Get("/produtos/evolucao-mensal-por-produto", h.Dashboard.HandleEvolucaoMensalPorProduto)

	dashboard.Get("/canais-mercados/performance-canal", h.Dashboard.HandlePerformanceCanal)
	dashboard.Get("/canais-mercados/performance-regiao", h.Dashboard.HandlePerformanceRegiao)

	dashboard.Get("/clientes/por-segmento", h.Dashboard.HandleClientesPorSegmento)

	dashboard.Get("/qualidade-satisfacao/nps", h.Dashboard.HandleNPS)
	dashboard.Get("/qualidade-satisfacao/nps-serie", h.Dashboard.HandleNPSSerie)
	dashboard.Get("/qualidade-satisfacao/qualidade-por-produto", h.Dashboard.HandleQualidadePorProduto)

	dashboard.Get("/logistica-custos/resumo", h.Dashboard.HandleLogisticaResumo)
	dashboard.Get("/logistica-custos/evolucao-custo", h.Dashboard.HandleLogisticaEvolucaoCusto)
	dashboard.Get("/logistica-custos/logistica-vs-volume", h.Dashboard.HandleLogisticaVsVolume)

	upload := app.Group("/upload", h.Auth.RequireAuth)
	upload.Post("/excel", h.Upload.HandleImportExcel)
	upload.Post("/revert", h.Upload.HandleRevert)
}
