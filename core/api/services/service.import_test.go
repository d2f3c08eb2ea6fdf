package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, sheets map[string][][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range rows {
			for c, value := range row {
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellValue(name, cell, value))
			}
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParseWorkbookPolpaSheet(t *testing.T) {
	data := buildWorkbook(t, map[string][][]interface{}{
		"Polpa congelada - Jan": {
			{"data_pedido", "canal", "regiao_destino", "cliente_segmento", "quantidade_kg", "preco_unitario_brl_kg", "nps_0a10", "logistica_brl", "lote_id"},
			{"2025-01-15", "Atacado", "Sudeste", "Indústria", "120,5", "18.9", "9", "350,00", "L-001"},
			{"2025-01-16", "Varejo", "Sul", "Food service", "80", "19.5", "", "200", "L-002"},
		},
	})

	parsed, err := ParseWorkbook(data, "batch-1")
	require.NoError(t, err)
	assert.Empty(t, parsed.Erros)

	require.Len(t, parsed.Fatos, 2)
	require.Len(t, parsed.Polpa, 2)
	assert.Empty(t, parsed.Manteiga)

	fato := parsed.Fatos[0]
	assert.Equal(t, "Polpa congelada_2025-01_0", fato.IDPedido)
	require.NotNil(t, fato.DataPedido)
	assert.Equal(t, 15, fato.DataPedido.Day())
	require.NotNil(t, fato.TipoProduto)
	assert.Equal(t, "Polpa congelada", *fato.TipoProduto)
	require.NotNil(t, fato.MesDoAno)
	assert.Equal(t, "Janeiro", *fato.MesDoAno)
	require.NotNil(t, fato.MesDoAnoNum)
	assert.Equal(t, 1, *fato.MesDoAnoNum)
	require.NotNil(t, fato.QuantidadeKg)
	assert.Equal(t, 120.5, *fato.QuantidadeKg)
	require.NotNil(t, fato.Nps0a10)
	assert.Equal(t, 9.0, *fato.Nps0a10)
	assert.Equal(t, "batch-1", fato.ImportBatchID)

	assert.Nil(t, parsed.Fatos[1].Nps0a10)

	metrica := parsed.Polpa[0]
	assert.Equal(t, fato.IDPedido, metrica.IDPedido)
	require.NotNil(t, metrica.LogisticaBrl)
	assert.Equal(t, 350.0, *metrica.LogisticaBrl)
	require.NotNil(t, metrica.LoteID)
	assert.Equal(t, "L-001", *metrica.LoteID)
}

func TestParseWorkbookManteigaSheet(t *testing.T) {
	data := buildWorkbook(t, map[string][][]interface{}{
		"Manteiga de manga - Fev": {
			{"data_pedido", "quantidade_kg", "preco_unitario_brl_kg", "teor_umidade_pct", "indice_acidez_mgKOH_g", "certificacao_exigida"},
			{"05/02/2025", "40", "75,5", "0,3", "1.8", "Orgânico"},
		},
	})

	parsed, err := ParseWorkbook(data, "batch-2")
	require.NoError(t, err)

	require.Len(t, parsed.Fatos, 1)
	require.Len(t, parsed.Manteiga, 1)
	assert.Empty(t, parsed.Polpa)

	fato := parsed.Fatos[0]
	assert.Equal(t, "Manteiga de manga_2025-02_0", fato.IDPedido)
	require.NotNil(t, fato.MesDoAno)
	assert.Equal(t, "Fevereiro", *fato.MesDoAno)

	metrica := parsed.Manteiga[0]
	require.NotNil(t, metrica.TeorUmidadePct)
	assert.Equal(t, 0.3, *metrica.TeorUmidadePct)
	require.NotNil(t, metrica.IndiceAcidezMgKOHg)
	assert.Equal(t, 1.8, *metrica.IndiceAcidezMgKOHg)
	require.NotNil(t, metrica.CertificacaoExigida)
	assert.Equal(t, "Orgânico", *metrica.CertificacaoExigida)
}

func TestParseWorkbookSkipsUnknownSheets(t *testing.T) {
	data := buildWorkbook(t, map[string][][]interface{}{
		"Resumo": {
			{"coluna_a", "coluna_b"},
			{"x", "y"},
		},
	})

	parsed, err := ParseWorkbook(data, "batch-3")
	require.NoError(t, err)
	assert.Empty(t, parsed.Fatos)
	assert.Empty(t, parsed.Erros)
}

func TestParseWorkbookMissingMandatoryColumns(t *testing.T) {
	data := buildWorkbook(t, map[string][][]interface{}{
		"Polpa congelada": {
			{"data_pedido", "canal"},
			{"2025-01-10", "Atacado"},
		},
	})

	parsed, err := ParseWorkbook(data, "batch-4")
	require.NoError(t, err)
	assert.Empty(t, parsed.Fatos)
	require.Len(t, parsed.Erros, 1)
	assert.Contains(t, parsed.Erros[0], "faltam colunas obrigatórias")
}

func TestParseWorkbookSkipsBadRows(t *testing.T) {
	data := buildWorkbook(t, map[string][][]interface{}{
		"Polpa congelada": {
			{"data_pedido", "quantidade_kg", "preco_unitario_brl_kg"},
			{"não é data", "10", "20"},
			{"2025-03-01", "", ""},
			{"2025-03-02", "50", "20"},
		},
	})

	parsed, err := ParseWorkbook(data, "batch-5")
	require.NoError(t, err)

	require.Len(t, parsed.Fatos, 1)
	// O índice da linha entra no id_pedido mesmo quando linhas
	// anteriores são descartadas.
	assert.Equal(t, "Polpa congelada_2025-03_2", parsed.Fatos[0].IDPedido)
}

func TestParseWorkbookInvalidBytes(t *testing.T) {
	_, err := ParseWorkbook([]byte("isto não é um xlsx"), "batch-6")
	require.Error(t, err)
}

func TestParseWorkbookHeaderAliases(t *testing.T) {
	data := buildWorkbook(t, map[string][][]interface{}{
		"Polpa": {
			{"Data", "Quantidade", "Preco", "Regiao"},
			{"2025-04-02", "30", "15", "Norte"},
		},
	})

	parsed, err := ParseWorkbook(data, "batch-7")
	require.NoError(t, err)

	require.Len(t, parsed.Fatos, 1)
	require.NotNil(t, parsed.Fatos[0].RegiaoDestino)
	assert.Equal(t, "Norte", *parsed.Fatos[0].RegiaoDestino)
}

func TestSheetColumnsPickLeftmostMatch(t *testing.T) {
	// Dois cabeçalhos casam com o alias "quantidade"; a resolução deve
	// ser estável e escolher sempre a coluna mais à esquerda.
	cols := newSheetColumns([]string{"quantidade_caixas", "quantidade_total"})
	for i := 0; i < 200; i++ {
		assert.Equal(t, 0, cols.col("quantidade_kg", "quantidade"))
	}

	reversed := newSheetColumns([]string{"quantidade_total", "quantidade_caixas"})
	assert.Equal(t, 0, reversed.col("quantidade_kg", "quantidade"))
}

func TestParseWorkbookSerialDates(t *testing.T) {
	data := buildWorkbook(t, map[string][][]interface{}{
		"Polpa congelada": {
			{"data_pedido", "quantidade_kg", "preco_unitario_brl_kg"},
			{45731, "10", "20"},
		},
	})

	parsed, err := ParseWorkbook(data, "batch-8")
	require.NoError(t, err)

	require.Len(t, parsed.Fatos, 1)
	fato := parsed.Fatos[0]
	require.NotNil(t, fato.DataPedido)
	assert.Equal(t, 2025, fato.DataPedido.Year())
	assert.Equal(t, time.March, fato.DataPedido.Month())
	assert.Equal(t, 15, fato.DataPedido.Day())
	assert.Equal(t, "Polpa congelada_2025-03_0", fato.IDPedido)
}

func TestValidateUploadFilename(t *testing.T) {
	assert.NoError(t, ValidateUploadFilename("pedidos.xlsx"))
	assert.NoError(t, ValidateUploadFilename("PEDIDOS.XLSX"))
	assert.NoError(t, ValidateUploadFilename("antigo.xls"))
	assert.Error(t, ValidateUploadFilename(""))
	assert.Error(t, ValidateUploadFilename("dados.csv"))
	assert.Error(t, ValidateUploadFilename("planilha"))
}
