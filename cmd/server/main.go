package main

import (
	"crypto/tls"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/joaobaungartner/goncalves-backend/core/database"
	"github.com/joaobaungartner/goncalves-backend/core/global"
	"github.com/joaobaungartner/goncalves-backend/core/logger"

	"github.com/gofiber/fiber/v3"
)

func main() {
	initLogger()
	InitGlobal()

	store := InitDatabase()
	defer database.Close(store.Client)

	handlers := BuildHandlers(store)
	app := InitFiberApp(handlers)

	go handleShutdown(app)

	serve(app)
}

// serve sobe o servidor HTTP, com TLS quando configurado.
func serve(app *fiber.App) {
	cfg := global.ServerConfig
	log := logger.GetAppLogger()

	if cfg.EnableTLS && cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			log.Fatalf("Erro ao carregar certificado TLS: %v", err)
		}

		ln, err := net.Listen("tcp", cfg.Address)
		if err != nil {
			log.Fatalf("Erro ao abrir listener: %v", err)
		}

		tlsListener := tls.NewListener(ln, &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		})

		log.WithField("address", cfg.Address).Info("Servidor HTTPS iniciado")
		if err := app.Listener(tlsListener); err != nil {
			log.Fatalf("Erro no listener TLS: %v", err)
		}
		return
	}

	log.WithField("address", cfg.Address).Info("Servidor HTTP iniciado")
	if err := app.Listen(cfg.Address, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
		log.Fatalf("Erro no Listen: %v", err)
	}
}

// handleShutdown encerra o Fiber de forma limpa em SIGINT/SIGTERM.
func handleShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.GetAppLogger().Info("Encerrando servidor")
	if err := app.Shutdown(); err != nil {
		logger.GetAppLogger().Errorf("Erro no shutdown: %v", err)
	}
}
