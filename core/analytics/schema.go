package analytics

import (
	"fmt"

	"github.com/joaobaungartner/goncalves-backend/core/common"
	"github.com/joaobaungartner/goncalves-backend/core/database"
)

// Dataset enumerates the queryable collections. It is a closed set,
// every query endpoint resolves its target collection through it.
type Dataset int

const (
	DatasetFatos Dataset = iota
	DatasetPolpa
	DatasetManteiga
)

var datasetNames = []string{"fatos", "polpa", "manteiga"}

// DatasetFromName resolves a dataset by its public name. Unknown
// names answer 400.
func DatasetFromName(name string) (Dataset, error) {
	for i, n := range datasetNames {
		if n == name {
			return Dataset(i), nil
		}
	}
	return 0, common.NewError(
		common.ErrCodeValidationInput,
		fmt.Sprintf("collection inválida. Use: %v", datasetNames),
		common.StatusBadRequest,
		nil,
	)
}

// DatasetNames lists the public dataset names in declaration order.
func DatasetNames() []string {
	return append([]string(nil), datasetNames...)
}

// Name returns the public name of the dataset.
func (d Dataset) Name() string {
	return datasetNames[d]
}

// CollectionName returns the MongoDB collection backing the dataset.
func (d Dataset) CollectionName() string {
	switch d {
	case DatasetPolpa:
		return database.CollPolpaMetricas
	case DatasetManteiga:
		return database.CollManteigaMetricas
	default:
		return database.CollFatosPedidos
	}
}

// Field whitelists per dataset. Queries only ever touch fields listed
// here.
var (
	fieldsFatos = []string{
		"id_pedido",
		"data_pedido",
		"tipo_produto",
		"mes_do_ano",
		"mes_do_ano_num",
		"canal",
		"regiao_destino",
		"cliente_segmento",
		"quantidade_kg",
		"preco_unitario_brl_kg",
		"nps_0a10",
	}
	fieldsPolpa = []string{
		"id_pedido",
		"logistica_brl",
		"desconto_brl",
		"lote_id",
		"indice_qualidade_1a10",
		"perda_processamento_pct",
	}
	fieldsManteiga = []string{
		"id_pedido",
		"teor_umidade_pct",
		"indice_acidez_mgKOH_g",
		"ponto_fusao_c",
		"indice_oxidacao_1a10",
		"certificacao_exigida",
	}

	numericFatos    = []string{"quantidade_kg", "preco_unitario_brl_kg", "nps_0a10", "mes_do_ano_num"}
	numericPolpa    = []string{"logistica_brl", "desconto_brl", "indice_qualidade_1a10", "perda_processamento_pct"}
	numericManteiga = []string{"teor_umidade_pct", "indice_acidez_mgKOH_g", "ponto_fusao_c", "indice_oxidacao_1a10"}

	categoricalFatos    = []string{"tipo_produto", "mes_do_ano", "canal", "regiao_destino", "cliente_segmento"}
	categoricalPolpa    = []string{"lote_id"}
	categoricalManteiga = []string{"certificacao_exigida"}
)

// Fields returns the queryable fields of the dataset.
func (d Dataset) Fields() []string {
	switch d {
	case DatasetPolpa:
		return fieldsPolpa
	case DatasetManteiga:
		return fieldsManteiga
	default:
		return fieldsFatos
	}
}

// NumericFields returns the numeric subset of the dataset fields.
func (d Dataset) NumericFields() []string {
	switch d {
	case DatasetPolpa:
		return numericPolpa
	case DatasetManteiga:
		return numericManteiga
	default:
		return numericFatos
	}
}

// CategoricalFields returns the categorical subset of the dataset
// fields.
func (d Dataset) CategoricalFields() []string {
	switch d {
	case DatasetPolpa:
		return categoricalPolpa
	case DatasetManteiga:
		return categoricalManteiga
	default:
		return categoricalFatos
	}
}

// HasField reports whether the field is queryable on this dataset.
func (d Dataset) HasField(field string) bool {
	for _, f := range d.Fields() {
		if f == field {
			return true
		}
	}
	return false
}

// IsNumeric reports whether the field is numeric on this dataset.
func (d Dataset) IsNumeric(field string) bool {
	for _, f := range d.NumericFields() {
		if f == field {
			return true
		}
	}
	return false
}

// ValidateField answers 400 when the field is not queryable.
func (d Dataset) ValidateField(field string) error {
	if !d.HasField(field) {
		return common.NewError(
			common.ErrCodeValidationInput,
			fmt.Sprintf("field inválido para %s. Permitidos: %v", d.Name(), d.Fields()),
			common.StatusBadRequest,
			nil,
		)
	}
	return nil
}

// ValidateFields validates every field in the slice.
func (d Dataset) ValidateFields(fields []string) error {
	for _, f := range fields {
		if err := d.ValidateField(f); err != nil {
			return err
		}
	}
	return nil
}

// Meta describes every dataset for the frontend: the dataset names
// and the field classification per dataset.
func Meta() map[string]interface{} {
	fields := map[string][]string{}
	numeric := map[string][]string{}
	categorical := map[string][]string{}
	for _, name := range datasetNames {
		d, _ := DatasetFromName(name)
		fields[name] = d.Fields()
		numeric[name] = d.NumericFields()
		categorical[name] = d.CategoricalFields()
	}

	return map[string]interface{}{
		"collections":        DatasetNames(),
		"fields":             fields,
		"numeric_fields":     numeric,
		"categorical_fields": categorical,
	}
}
