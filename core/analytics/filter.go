package analytics

import (
	"strconv"
	"strings"
	"time"

	"github.com/joaobaungartner/goncalves-backend/core/common"

	"go.mongodb.org/mongo-driver/bson"
)

// FilterParams carries the standard filter query parameters shared by
// every read endpoint.
type FilterParams struct {
	TipoProduto     string
	MesDoAnoNum     *int
	Canal           string
	RegiaoDestino   string
	ClienteSegmento string
	DateFrom        string
	DateTo          string
	ExtraFilters    string
}

// Coerced is the result of coercing an extra-filter value. Coerced
// tells whether a numeric conversion actually happened, callers can
// log or surface mismatched types instead of silently matching
// nothing.
type Coerced struct {
	Value   interface{}
	Coerced bool
}

// CoerceNumeric converts a raw filter value for a numeric field.
// Values containing a dot become float64, otherwise int. Values that
// do not parse stay strings with Coerced false.
func CoerceNumeric(raw string) Coerced {
	if strings.Contains(raw, ".") {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return Coerced{Value: f, Coerced: true}
		}
		return Coerced{Value: raw, Coerced: false}
	}
	if i, err := strconv.Atoi(raw); err == nil {
		return Coerced{Value: i, Coerced: true}
	}
	return Coerced{Value: raw, Coerced: false}
}

// Datetime layouts accepted for date_from / date_to.
var filterDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseFilterDate(raw string) (time.Time, error) {
	for _, layout := range filterDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, common.NewError(
		common.ErrCodeValidationFormat,
		"data inválida: use o formato ISO, ex: 2025-07-01T00:00:00",
		common.StatusBadRequest,
		raw,
	)
}

// BuildMatch translates the filter parameters into a $match document
// for the dataset. Standard filters only apply when the dataset
// carries the field; date ranges only apply to datasets with
// data_pedido; extra filters are validated against the whitelist and
// numerically coerced when the field is numeric.
func BuildMatch(d Dataset, p FilterParams) (bson.M, error) {
	q := bson.M{}

	if p.TipoProduto != "" && d.HasField("tipo_produto") {
		q["tipo_produto"] = p.TipoProduto
	}
	if p.MesDoAnoNum != nil && d.HasField("mes_do_ano_num") {
		q["mes_do_ano_num"] = *p.MesDoAnoNum
	}
	if p.Canal != "" && d.HasField("canal") {
		q["canal"] = p.Canal
	}
	if p.RegiaoDestino != "" && d.HasField("regiao_destino") {
		q["regiao_destino"] = p.RegiaoDestino
	}
	if p.ClienteSegmento != "" && d.HasField("cliente_segmento") {
		q["cliente_segmento"] = p.ClienteSegmento
	}

	if d.HasField("data_pedido") && (p.DateFrom != "" || p.DateTo != "") {
		dtFilter := bson.M{}
		if p.DateFrom != "" {
			t, err := parseFilterDate(p.DateFrom)
			if err != nil {
				return nil, err
			}
			dtFilter["$gte"] = t
		}
		if p.DateTo != "" {
			t, err := parseFilterDate(p.DateTo)
			if err != nil {
				return nil, err
			}
			dtFilter["$lte"] = t
		}
		q["data_pedido"] = dtFilter
	}

	if p.ExtraFilters != "" {
		for _, pair := range strings.Split(p.ExtraFilters, ",") {
			pair = strings.TrimSpace(pair)
			if pair == "" {
				continue
			}
			k, v, found := strings.Cut(pair, "=")
			if !found {
				return nil, common.NewError(
					common.ErrCodeValidationInput,
					"extra_filters inválido. Use: campo=valor,campo2=valor2",
					common.StatusBadRequest,
					nil,
				)
			}
			k = strings.TrimSpace(k)
			v = strings.TrimSpace(v)
			if err := d.ValidateField(k); err != nil {
				return nil, err
			}
			if d.IsNumeric(k) {
				q[k] = CoerceNumeric(v).Value
			} else {
				q[k] = v
			}
		}
	}

	return q, nil
}
