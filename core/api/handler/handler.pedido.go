package handler

import (
	"github.com/joaobaungartner/goncalves-backend/core/api/services"
	"github.com/joaobaungartner/goncalves-backend/core/common"

	"github.com/gofiber/fiber/v3"
)

// PedidoHandler trata a listagem e os KPIs de pedidos.
type PedidoHandler struct {
	pedidoService *services.PedidoService
}

// NewPedidoHandler creates the pedido handler.
func NewPedidoHandler(pedidoService *services.PedidoService) *PedidoHandler {
	return &PedidoHandler{pedidoService: pedidoService}
}

func parsePedidoFilter(c fiber.Ctx) services.PedidoFilter {
	return services.PedidoFilter{
		TipoProduto:     c.Query("tipo_produto"),
		MesDoAnoNum:     QueryIntPtr(c, "mes_do_ano_num"),
		Canal:           c.Query("canal"),
		RegiaoDestino:   c.Query("regiao_destino"),
		ClienteSegmento: c.Query("cliente_segmento"),
	}
}

// HandleList trata GET /pedidos.
func (h *PedidoHandler) HandleList(c fiber.Ctx) error {
	page := QueryInt(c, "page", 1, 1, 1<<30)
	pageSize := QueryInt(c, "page_size", 50, 1, 500)

	out, err := h.pedidoService.List(c.Context(), parsePedidoFilter(c), page, pageSize)
	if err != nil {
		return err
	}
	return JSONResponse(c, common.StatusOK, out)
}

// HandleKPIs trata GET /pedidos/kpis.
func (h *PedidoHandler) HandleKPIs(c fiber.Ctx) error {
	out, err := h.pedidoService.KPIs(c.Context(), parsePedidoFilter(c))
	if err != nil {
		return err
	}
	return JSONResponse(c, common.StatusOK, out)
}

// HandleTimeseries trata GET /pedidos/timeseries.
func (h *PedidoHandler) HandleTimeseries(c fiber.Ctx) error {
	granularity, err := QueryEnum(c, "granularity", "day", "day", "month")
	if err != nil {
		return err
	}

	items, err := h.pedidoService.Timeseries(c.Context(), parsePedidoFilter(c), granularity)
	if err != nil {
		return err
	}
	return JSONResponse(c, common.StatusOK, items)
}

// HandleDetail trata GET /pedidos/:id_pedido.
func (h *PedidoHandler) HandleDetail(c fiber.Ctx) error {
	out, err := h.pedidoService.Detail(c.Context(), c.Params("id_pedido"))
	if err != nil {
		return err
	}
	return JSONResponse(c, common.StatusOK, out)
}
