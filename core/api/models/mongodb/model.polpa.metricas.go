package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PolpaMetrica - métricas técnicas de um pedido de polpa, ligadas ao
// fato pelo id_pedido.
type PolpaMetrica struct {
	ID                    primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	IDPedido              string             `json:"id_pedido" bson:"id_pedido" index:"single"`
	LogisticaBrl          *float64           `json:"logistica_brl" bson:"logistica_brl"`
	DescontoBrl           *float64           `json:"desconto_brl" bson:"desconto_brl"`
	LoteID                *string            `json:"lote_id" bson:"lote_id"`
	IndiceQualidade1a10   *float64           `json:"indice_qualidade_1a10" bson:"indice_qualidade_1a10"`
	PerdaProcessamentoPct *float64           `json:"perda_processamento_pct" bson:"perda_processamento_pct"`
	ImportBatchID         string             `json:"import_batch_id,omitempty" bson:"import_batch_id,omitempty" index:"single"`
}
