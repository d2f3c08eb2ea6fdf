package handler

// Package handler liga as rotas HTTP aos services. Os handlers fazem
// apenas parse e validação de entrada; erros sobem como *common.Error
// e são formatados pelo ErrorHandler do Fiber.

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/joaobaungartner/goncalves-backend/core/common"
	"github.com/joaobaungartner/goncalves-backend/core/global"

	"github.com/gofiber/fiber/v3"
)

// JSONResponse força charset=utf-8 para que os textos em português
// cheguem corretos ao cliente.
func JSONResponse(c fiber.Ctx, statusCode int, data interface{}) error {
	c.Set("Content-Type", "application/json; charset=utf-8")
	return c.Status(statusCode).JSON(data)
}

// ParseBody decodifica o corpo JSON e valida o struct com as tags
// `validate`.
func ParseBody(c fiber.Ctx, input interface{}) error {
	decoder := json.NewDecoder(bytes.NewReader(c.Body()))
	decoder.UseNumber()
	if err := decoder.Decode(input); err != nil {
		return common.NewError(common.ErrCodeValidationFormat, common.MsgValidationError, common.StatusBadRequest, err)
	}

	if err := global.Validate.Struct(input); err != nil {
		return common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err)
	}

	return nil
}

// QueryInt lê um parâmetro inteiro da query string com default e
// limites. Valores fora da faixa são ajustados para o limite.
func QueryInt(c fiber.Ctx, name string, def, min, max int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

// QueryIntPtr lê um parâmetro inteiro opcional; ausência vira nil.
func QueryIntPtr(c fiber.Ctx, name string) *int {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

// QueryBool lê um parâmetro booleano da query string.
func QueryBool(c fiber.Ctx, name string, def bool) bool {
	raw := strings.ToLower(c.Query(name))
	switch raw {
	case "":
		return def
	case "1", "true", "t", "yes", "sim":
		return true
	default:
		return false
	}
}

// QueryEnum lê um parâmetro restrito a um conjunto de valores; fora
// do conjunto vira erro 400.
func QueryEnum(c fiber.Ctx, name, def string, allowed ...string) (string, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	for _, a := range allowed {
		if raw == a {
			return raw, nil
		}
	}
	return "", common.NewError(common.ErrCodeValidationInput,
		name+" inválido. Use: "+strings.Join(allowed, " | "),
		common.StatusBadRequest, nil)
}

// SplitCSV quebra um parâmetro "a,b,c" em itens não vazios.
func SplitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
