package dto

// ImportCounts conta documentos por coleção em uma importação.
type ImportCounts struct {
	FatosPedidos     int `json:"fatos_pedidos"`
	PolpaMetricas    int `json:"polpa_metricas"`
	ManteigaMetricas int `json:"manteiga_metricas"`
}

// ImportOutput é a resposta de POST /upload/excel. Erros fica null
// quando nenhuma aba falhou.
type ImportOutput struct {
	Message   string       `json:"message"`
	BatchID   string       `json:"batch_id"`
	Inseridos ImportCounts `json:"inseridos"`
	Erros     []string     `json:"erros"`
}

// RevertInput é o corpo de POST /upload/revert. O batch_id vazio é
// validado no service para devolver a mensagem específica.
type RevertInput struct {
	BatchID string `json:"batch_id"`
}

// RevertOutput é a resposta de POST /upload/revert.
type RevertOutput struct {
	Message   string       `json:"message"`
	BatchID   string       `json:"batch_id"`
	Removidos ImportCounts `json:"removidos"`
}
