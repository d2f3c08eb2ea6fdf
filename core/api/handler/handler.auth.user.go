package handler

import (
	"github.com/joaobaungartner/goncalves-backend/core/api/dto"
	"github.com/joaobaungartner/goncalves-backend/core/api/services"
	"github.com/joaobaungartner/goncalves-backend/core/common"
	"github.com/joaobaungartner/goncalves-backend/core/logger"

	"github.com/gofiber/fiber/v3"
)

// UserHandler trata criação de usuário, login e o endpoint /auth/me.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates the auth handler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// HandleCreate trata POST /auth/criar-usuario.
func (h *UserHandler) HandleCreate(c fiber.Ctx) error {
	var input dto.UserCreateInput
	if err := ParseBody(c, &input); err != nil {
		return err
	}

	out, err := h.userService.Create(c.Context(), &input)
	if err != nil {
		return err
	}

	logger.WithRequest(c).WithField("username", out.Username).Info("Usuário criado")
	return JSONResponse(c, common.StatusOK, out)
}

// HandleLogin trata POST /auth/login.
func (h *UserHandler) HandleLogin(c fiber.Ctx) error {
	var input dto.UserLoginInput
	if err := ParseBody(c, &input); err != nil {
		return err
	}

	out, err := h.userService.Login(c.Context(), &input)
	if err != nil {
		return err
	}

	return JSONResponse(c, common.StatusOK, out)
}

// HandleMe trata GET /auth/me; o username vem do middleware de
// autenticação.
func (h *UserHandler) HandleMe(c fiber.Ctx) error {
	username, _ := c.Locals("username").(string)
	if username == "" {
		return common.ErrTokenInvalid
	}

	out, err := h.userService.GetByUsername(c.Context(), username)
	if err != nil {
		return err
	}

	return JSONResponse(c, common.StatusOK, out)
}
