package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/joaobaungartner/goncalves-backend/core/api/dto"
	models "github.com/joaobaungartner/goncalves-backend/core/api/models/mongodb"
	"github.com/joaobaungartner/goncalves-backend/core/common"
	"github.com/joaobaungartner/goncalves-backend/core/database"
	"github.com/joaobaungartner/goncalves-backend/core/logger"
	"github.com/joaobaungartner/goncalves-backend/core/utility"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson"
)

// mesesNome mapeia o número do mês para o nome em português.
var mesesNome = map[int]string{
	1: "Janeiro", 2: "Fevereiro", 3: "Março", 4: "Abril", 5: "Maio", 6: "Junho",
	7: "Julho", 8: "Agosto", 9: "Setembro", 10: "Outubro", 11: "Novembro", 12: "Dezembro",
}

// ImportService importa pedidos a partir de planilhas Excel e reverte
// importações por batch_id.
type ImportService struct {
	fatos    BaseServiceMongo[models.FatoPedido]
	polpa    BaseServiceMongo[models.PolpaMetrica]
	manteiga BaseServiceMongo[models.ManteigaMetrica]
}

// NewImportService creates the Excel import service.
func NewImportService(store *database.Store) *ImportService {
	return &ImportService{
		fatos:    NewBaseServiceMongo[models.FatoPedido](store.FatosPedidos),
		polpa:    NewBaseServiceMongo[models.PolpaMetrica](store.PolpaMetricas),
		manteiga: NewBaseServiceMongo[models.ManteigaMetrica](store.ManteigaMetricas),
	}
}

// ParsedWorkbook holds everything extracted from one workbook before
// it hits the database.
type ParsedWorkbook struct {
	Fatos    []models.FatoPedido
	Polpa    []models.PolpaMetrica
	Manteiga []models.ManteigaMetrica
	Erros    []string
}

// sheetColumns resolves header aliases onto 0-based column indexes.
// names keeps the normalized headers in column order so alias lookups
// always resolve to the leftmost matching column.
type sheetColumns struct {
	names   []string
	headers map[string]int
}

func newSheetColumns(headerRow []string) sheetColumns {
	cols := sheetColumns{headers: map[string]int{}}
	for i, raw := range headerRow {
		name := utility.NormalizeHeader(raw)
		if name == "" {
			continue
		}
		if _, exists := cols.headers[name]; !exists {
			cols.headers[name] = i
			cols.names = append(cols.names, name)
		}
	}
	return cols
}

// col finds the first column matching any alias, substring in either
// direction. Returns -1 when nothing matches.
func (c sheetColumns) col(aliases ...string) int {
	for _, alias := range aliases {
		for _, name := range c.names {
			if strings.Contains(name, alias) || strings.Contains(alias, name) {
				return c.headers[name]
			}
		}
	}
	return -1
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func intAsFloat(v *int) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}

func parseCellDate(value string) *time.Time {
	s := strings.TrimSpace(value)
	if s == "" {
		return nil
	}
	t, err := utility.ParseDate(s)
	if err != nil {
		return nil
	}
	return &t
}

// ValidateUploadFilename rejects anything that is not an Excel file.
func ValidateUploadFilename(filename string) error {
	lower := strings.ToLower(filename)
	if filename == "" || (!strings.HasSuffix(lower, ".xlsx") && !strings.HasSuffix(lower, ".xls")) {
		return common.NewError(common.ErrCodeValidationInput, "Envie um arquivo .xlsx", common.StatusBadRequest, nil)
	}
	return nil
}

// ParseWorkbook reads the workbook bytes and extracts the order facts
// and per-product metric rows. Sheets are matched by name: anything
// containing "polpa" is a polpa sheet, "manteiga" a manteiga sheet,
// everything else is skipped. Per-sheet problems go into Erros, only
// an unreadable workbook is a hard error.
func ParseWorkbook(data []byte, batchID string) (*ParsedWorkbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, common.NewError(common.ErrCodeValidationInput,
			fmt.Sprintf("Arquivo Excel inválido: %v", err), common.StatusBadRequest, nil)
	}
	defer f.Close()

	parsed := &ParsedWorkbook{}

	for _, sheetName := range f.GetSheetList() {
		nomeLower := strings.ToLower(sheetName)

		var tipoProduto string
		var isPolpa bool
		switch {
		case strings.Contains(nomeLower, "polpa"):
			tipoProduto = "Polpa congelada"
			isPolpa = true
		case strings.Contains(nomeLower, "manteiga"):
			tipoProduto = "Manteiga de manga"
		default:
			continue
		}

		rows, err := f.GetRows(sheetName)
		if err != nil || len(rows) == 0 || len(rows[0]) == 0 {
			parsed.Erros = append(parsed.Erros, fmt.Sprintf("Aba '%s': cabeçalho não encontrado.", sheetName))
			continue
		}

		cols := newSheetColumns(rows[0])
		if len(cols.headers) == 0 {
			parsed.Erros = append(parsed.Erros, fmt.Sprintf("Aba '%s': cabeçalho não encontrado.", sheetName))
			continue
		}

		idxData := cols.col("data_pedido", "data")
		idxCanal := cols.col("canal")
		idxRegiao := cols.col("regiao_destino", "regiao")
		idxSegmento := cols.col("cliente_segmento", "segmento")
		idxQtde := cols.col("quantidade_kg", "quantidade")
		idxPreco := cols.col("preco_unitario_brl_kg", "preco_unitario", "preco")
		idxNps := cols.col("nps_0a10", "nps")

		if idxData < 0 || idxQtde < 0 || idxPreco < 0 {
			parsed.Erros = append(parsed.Erros,
				fmt.Sprintf("Aba '%s': faltam colunas obrigatórias (data_pedido, quantidade_kg, preco_unitario_brl_kg).", sheetName))
			continue
		}

		idxLog := cols.col("logistica_brl", "logistica")
		idxDesconto := cols.col("desconto_brl", "desconto")
		idxLote := cols.col("lote_id", "lote")
		idxQualidade := cols.col("indice_qualidade_1a10", "indice_qualidade", "qualidade")
		idxPerda := cols.col("perda_processamento_pct", "perda_processamento", "perda")
		idxUmidade := cols.col("teor_umidade_pct", "teor_umidade", "umidade")
		idxAcidez := cols.col("indice_acidez_mgkoh_g", "indice_acidez", "acidez")
		idxFusao := cols.col("ponto_fusao_c", "ponto_fusao", "fusao")
		idxOxidacao := cols.col("indice_oxidacao_1a10", "indice_oxidacao", "oxidacao")
		idxCert := cols.col("certificacao_exigida", "certificacao")

		for rowNum := 1; rowNum < len(rows); rowNum++ {
			row := rows[rowNum]

			dataPedido := parseCellDate(cellAt(row, idxData))
			if dataPedido == nil {
				continue
			}

			quantidadeKg := utility.SafeFloat(cellAt(row, idxQtde))
			precoKg := utility.SafeFloat(cellAt(row, idxPreco))
			if quantidadeKg == nil && precoKg == nil {
				continue
			}

			ano := dataPedido.Year()
			mes := int(dataPedido.Month())
			mesNome := mesesNome[mes]
			idPedido := fmt.Sprintf("%s_%d-%02d_%d", tipoProduto, ano, mes, rowNum-1)

			fato := models.FatoPedido{
				IDPedido:           idPedido,
				DataPedido:         dataPedido,
				TipoProduto:        &tipoProduto,
				MesDoAno:           &mesNome,
				MesDoAnoNum:        &mes,
				QuantidadeKg:       quantidadeKg,
				PrecoUnitarioBrlKg: precoKg,
				ImportBatchID:      batchID,
			}
			if idxCanal >= 0 {
				fato.Canal = utility.SafeString(cellAt(row, idxCanal))
			}
			if idxRegiao >= 0 {
				fato.RegiaoDestino = utility.SafeString(cellAt(row, idxRegiao))
			}
			if idxSegmento >= 0 {
				fato.ClienteSegmento = utility.SafeString(cellAt(row, idxSegmento))
			}
			if idxNps >= 0 {
				fato.Nps0a10 = intAsFloat(utility.SafeInt(cellAt(row, idxNps)))
			}
			parsed.Fatos = append(parsed.Fatos, fato)

			if isPolpa {
				metrica := models.PolpaMetrica{
					IDPedido:      idPedido,
					ImportBatchID: batchID,
				}
				if idxLog >= 0 {
					metrica.LogisticaBrl = utility.SafeFloat(cellAt(row, idxLog))
				}
				if idxDesconto >= 0 {
					metrica.DescontoBrl = utility.SafeFloat(cellAt(row, idxDesconto))
				}
				if idxLote >= 0 {
					metrica.LoteID = utility.SafeString(cellAt(row, idxLote))
				}
				if idxQualidade >= 0 {
					metrica.IndiceQualidade1a10 = intAsFloat(utility.SafeInt(cellAt(row, idxQualidade)))
				}
				if idxPerda >= 0 {
					metrica.PerdaProcessamentoPct = utility.SafeFloat(cellAt(row, idxPerda))
				}
				parsed.Polpa = append(parsed.Polpa, metrica)
			} else {
				metrica := models.ManteigaMetrica{
					IDPedido:      idPedido,
					ImportBatchID: batchID,
				}
				if idxUmidade >= 0 {
					metrica.TeorUmidadePct = utility.SafeFloat(cellAt(row, idxUmidade))
				}
				if idxAcidez >= 0 {
					metrica.IndiceAcidezMgKOHg = utility.SafeFloat(cellAt(row, idxAcidez))
				}
				if idxFusao >= 0 {
					metrica.PontoFusaoC = utility.SafeFloat(cellAt(row, idxFusao))
				}
				if idxOxidacao >= 0 {
					metrica.IndiceOxidacao1a10 = intAsFloat(utility.SafeInt(cellAt(row, idxOxidacao)))
				}
				if idxCert >= 0 {
					metrica.CertificacaoExigida = utility.SafeString(cellAt(row, idxCert))
				}
				parsed.Manteiga = append(parsed.Manteiga, metrica)
			}
		}
	}

	return parsed, nil
}

// ImportExcel parses the workbook and persists every extracted row
// under a fresh batch_id.
func (s *ImportService) ImportExcel(ctx context.Context, filename string, data []byte) (*dto.ImportOutput, error) {
	if err := ValidateUploadFilename(filename); err != nil {
		return nil, err
	}

	batchID := uuid.New().String()
	parsed, err := ParseWorkbook(data, batchID)
	if err != nil {
		return nil, err
	}

	log := logger.GetAppLogger().WithField("batch_id", batchID)

	out := &dto.ImportOutput{
		Message: "Importação concluída.",
		BatchID: batchID,
		Erros:   parsed.Erros,
	}

	if len(parsed.Fatos) > 0 {
		n, err := s.fatos.InsertMany(ctx, parsed.Fatos)
		if err != nil {
			return nil, err
		}
		out.Inseridos.FatosPedidos = n
	}
	if len(parsed.Polpa) > 0 {
		n, err := s.polpa.InsertMany(ctx, parsed.Polpa)
		if err != nil {
			return nil, err
		}
		out.Inseridos.PolpaMetricas = n
	}
	if len(parsed.Manteiga) > 0 {
		n, err := s.manteiga.InsertMany(ctx, parsed.Manteiga)
		if err != nil {
			return nil, err
		}
		out.Inseridos.ManteigaMetricas = n
	}

	log.WithFields(map[string]interface{}{
		"fatos_pedidos":     out.Inseridos.FatosPedidos,
		"polpa_metricas":    out.Inseridos.PolpaMetricas,
		"manteiga_metricas": out.Inseridos.ManteigaMetricas,
		"erros":             len(parsed.Erros),
	}).Info("Importação de Excel concluída")

	return out, nil
}

// Revert removes every document inserted by one import batch.
func (s *ImportService) Revert(ctx context.Context, batchID string) (*dto.RevertOutput, error) {
	if strings.TrimSpace(batchID) == "" {
		return nil, common.NewError(common.ErrCodeValidationInput, "batch_id é obrigatório.", common.StatusBadRequest, nil)
	}

	filter := bson.M{"import_batch_id": batchID}

	removedFatos, err := s.fatos.DeleteMany(ctx, filter)
	if err != nil {
		return nil, err
	}
	removedPolpa, err := s.polpa.DeleteMany(ctx, filter)
	if err != nil {
		return nil, err
	}
	removedManteiga, err := s.manteiga.DeleteMany(ctx, filter)
	if err != nil {
		return nil, err
	}

	logger.GetAppLogger().WithFields(map[string]interface{}{
		"batch_id":          batchID,
		"fatos_pedidos":     removedFatos,
		"polpa_metricas":    removedPolpa,
		"manteiga_metricas": removedManteiga,
	}).Info("Importação revertida")

	return &dto.RevertOutput{
		Message: "Importação revertida.",
		BatchID: batchID,
		Removidos: dto.ImportCounts{
			FatosPedidos:     int(removedFatos),
			PolpaMetricas:    int(removedPolpa),
			ManteigaMetricas: int(removedManteiga),
		},
	}, nil
}
