package handler

import (
	"io"

	"github.com/joaobaungartner/goncalves-backend/core/api/dto"
	"github.com/joaobaungartner/goncalves-backend/core/api/services"
	"github.com/joaobaungartner/goncalves-backend/core/common"

	"github.com/gofiber/fiber/v3"
)

// UploadHandler trata a importação de Excel e o revert por batch_id.
type UploadHandler struct {
	importService *services.ImportService
}

// NewUploadHandler creates the upload handler.
func NewUploadHandler(importService *services.ImportService) *UploadHandler {
	return &UploadHandler{importService: importService}
}

// HandleImportExcel trata POST /upload/excel (multipart, campo "file").
func (h *UploadHandler) HandleImportExcel(c fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return common.NewError(common.ErrCodeValidationInput, "Envie um arquivo .xlsx", common.StatusBadRequest, err)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return common.NewError(common.ErrCodeValidationInput, "Não foi possível ler o arquivo enviado", common.StatusBadRequest, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return common.NewError(common.ErrCodeValidationInput, "Não foi possível ler o arquivo enviado", common.StatusBadRequest, err)
	}

	out, err := h.importService.ImportExcel(c.Context(), fileHeader.Filename, data)
	if err != nil {
		return err
	}
	return JSONResponse(c, common.StatusOK, out)
}

// HandleRevert trata POST /upload/revert.
func (h *UploadHandler) HandleRevert(c fiber.Ctx) error {
	var input dto.RevertInput
	if err := ParseBody(c, &input); err != nil {
		return err
	}

	out, err := h.importService.Revert(c.Context(), input.BatchID)
	if err != nil {
		return err
	}
	return JSONResponse(c, common.StatusOK, out)
}
