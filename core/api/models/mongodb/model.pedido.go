package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FatoPedido - fato de pedido de derivados de manga (polpa congelada
// ou manteiga). Campos opcionais são ponteiros: ausência vira null no
// BSON e não entra nas agregações numéricas.
type FatoPedido struct {
	ID                 primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	IDPedido           string             `json:"id_pedido" bson:"id_pedido" index:"single"`
	DataPedido         *time.Time         `json:"data_pedido" bson:"data_pedido" index:"single,order:-1"`
	TipoProduto        *string            `json:"tipo_produto" bson:"tipo_produto" index:"single"`
	MesDoAno           *string            `json:"mes_do_ano" bson:"mes_do_ano"`
	MesDoAnoNum        *int               `json:"mes_do_ano_num" bson:"mes_do_ano_num"`
	Canal              *string            `json:"canal" bson:"canal"`
	RegiaoDestino      *string            `json:"regiao_destino" bson:"regiao_destino"`
	ClienteSegmento    *string            `json:"cliente_segmento" bson:"cliente_segmento"`
	QuantidadeKg       *float64           `json:"quantidade_kg" bson:"quantidade_kg"`
	PrecoUnitarioBrlKg *float64           `json:"preco_unitario_brl_kg" bson:"preco_unitario_brl_kg"`
	// Nps0a10 vem como inteiro da planilha; float64 para o $avg.
	Nps0a10       *float64 `json:"nps_0a10" bson:"nps_0a10"`
	ImportBatchID string   `json:"import_batch_id,omitempty" bson:"import_batch_id,omitempty" index:"single"`
}
