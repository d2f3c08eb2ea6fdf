package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ManteigaMetrica - métricas técnicas de um pedido de manteiga,
// ligadas ao fato pelo id_pedido.
type ManteigaMetrica struct {
	ID                  primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	IDPedido            string             `json:"id_pedido" bson:"id_pedido" index:"single"`
	TeorUmidadePct      *float64           `json:"teor_umidade_pct" bson:"teor_umidade_pct"`
	IndiceAcidezMgKOHg  *float64           `json:"indice_acidez_mgKOH_g" bson:"indice_acidez_mgKOH_g"`
	PontoFusaoC         *float64           `json:"ponto_fusao_c" bson:"ponto_fusao_c"`
	IndiceOxidacao1a10  *float64           `json:"indice_oxidacao_1a10" bson:"indice_oxidacao_1a10"`
	CertificacaoExigida *string            `json:"certificacao_exigida" bson:"certificacao_exigida"`
	ImportBatchID       string             `json:"import_batch_id,omitempty" bson:"import_batch_id,omitempty" index:"single"`
}
