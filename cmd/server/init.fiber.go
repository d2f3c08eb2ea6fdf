package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joaobaungartner/goncalves-backend/core/api/router"
	"github.com/joaobaungartner/goncalves-backend/core/common"
	"github.com/joaobaungartner/goncalves-backend/core/global"
	"github.com/joaobaungartner/goncalves-backend/core/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
)

// InitFiberApp monta o app Fiber com o middleware stack e as rotas.
func InitFiberApp(handlers router.Handlers) *fiber.App {
	cfg := global.ServerConfig

	app := fiber.New(fiber.Config{
		AppName:       "Goncalves Analytics API",
		ServerHeader:  "Goncalves Analytics API",
		StrictRouting: false,
		CaseSensitive: true,
		BodyLimit:     20 * 1024 * 1024, // planilhas grandes no /upload/excel

		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // agregações pesadas podem demorar
		IdleTimeout:  120 * time.Second,

		ErrorHandler: errorHandler,
	})

	app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
	}))

	var allowOrigins []string
	if cfg.CORS_Origins == "*" {
		allowOrigins = []string{"*"}
	} else {
		for _, origin := range strings.Split(cfg.CORS_Origins, ",") {
			allowOrigins = append(allowOrigins, strings.TrimSpace(origin))
		}
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"X-Request-ID",
			"X-Requested-With",
		},
		AllowCredentials: cfg.CORS_AllowCredentials,
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		MaxAge:           24 * 60 * 60,
	}))

	app.Use(func(c fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		return c.Next()
	})

	if cfg.RateLimit_Enabled && cfg.RateLimit_Max > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit_Max,
			Expiration: time.Duration(cfg.RateLimit_Window) * time.Second,
			KeyGenerator: func(c fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c fiber.Ctx) error {
				return c.Status(common.StatusTooManyRequests).JSON(fiber.Map{
					"code":    common.ErrCodeBusinessOperation.Code,
					"message": "Muitas requisições, tente novamente em instantes",
					"status":  "error",
				})
			},
			Next: func(c fiber.Ctx) bool {
				return c.Path() == "/health" || c.Method() == "OPTIONS"
			},
		}))
		logger.GetAppLogger().Infof("Rate limit ativo: %d requisições por %d segundos", cfg.RateLimit_Max, cfg.RateLimit_Window)
	} else {
		logger.GetAppLogger().Info("Rate limit desativado")
	}

	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			logger.WithRequest(c).WithField("panic", e).Error("Panic recuperado")
		},
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))

	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	router.Register(app, handlers)

	return app
}

// errorHandler converte qualquer erro em um envelope JSON uniforme.
// *common.Error carrega o status HTTP e o código da taxonomia; o
// resto vira 500.
func errorHandler(c fiber.Ctx, err error) error {
	var customErr *common.Error
	if errors.As(err, &customErr) {
		if customErr.StatusCode >= common.StatusInternalServerError {
			logger.WithRequest(c).WithError(err).Error("Erro de servidor")
		}
		return c.Status(customErr.StatusCode).JSON(fiber.Map{
			"code":    customErr.Code.Code,
			"message": customErr.Message,
			"details": customErr.Details,
			"status":  "error",
		})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		errorCode := common.ErrCodeInternalServer.Code
		switch fiberErr.Code {
		case fiber.StatusBadRequest:
			errorCode = common.ErrCodeValidationInput.Code
		case fiber.StatusUnauthorized:
			errorCode = common.ErrCodeAuthToken.Code
		case fiber.StatusNotFound:
			errorCode = common.ErrCodeDatabaseQuery.Code
		case fiber.StatusConflict:
			errorCode = common.ErrCodeDatabaseQuery.Code
		}
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"code":    errorCode,
			"message": fiberErr.Message,
			"status":  "error",
		})
	}

	logger.WithRequest(c).WithError(err).Error("Erro não tratado")
	return c.Status(common.StatusInternalServerError).JSON(fiber.Map{
		"code":    common.ErrCodeInternalServer.Code,
		"message": fmt.Sprintf("Erro interno: %v", err),
		"status":  "error",
	})
}
