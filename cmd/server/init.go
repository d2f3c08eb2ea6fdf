package main

import (
	"context"
	"fmt"
	"time"

	"github.com/joaobaungartner/goncalves-backend/config"
	"github.com/joaobaungartner/goncalves-backend/core/api/handler"
	"github.com/joaobaungartner/goncalves-backend/core/api/middleware"
	"github.com/joaobaungartner/goncalves-backend/core/api/router"
	"github.com/joaobaungartner/goncalves-backend/core/api/services"
	"github.com/joaobaungartner/goncalves-backend/core/auth"
	"github.com/joaobaungartner/goncalves-backend/core/database"
	"github.com/joaobaungartner/goncalves-backend/core/global"
	"github.com/joaobaungartner/goncalves-backend/core/logger"

	models "github.com/joaobaungartner/goncalves-backend/core/api/models/mongodb"
)

// InitGlobal carrega a configuração e o validator globais.
func InitGlobal() {
	global.ServerConfig = config.NewConfig()
	if global.ServerConfig == nil {
		panic("configuração não pôde ser carregada")
	}
	global.InitValidator()

	logger.GetAppLogger().WithField("address", global.ServerConfig.Address).Info("Configuração carregada")
}

// InitDatabase conecta ao MongoDB, garante as coleções e cria os
// índices declarados nos models.
func InitDatabase() *database.Store {
	cfg := global.ServerConfig
	log := logger.GetAppLogger()

	client, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Erro ao conectar no MongoDB: %v", err)
	}

	if err := database.EnsureDatabaseAndCollections(client, cfg.MongoDB_DBName); err != nil {
		log.Fatalf("Erro ao preparar o banco: %v", err)
	}

	store := database.NewStore(client, cfg.MongoDB_DBName)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	indexTargets := []struct {
		name  string
		model interface{}
	}{
		{database.CollFatosPedidos, models.FatoPedido{}},
		{database.CollPolpaMetricas, models.PolpaMetrica{}},
		{database.CollManteigaMetricas, models.ManteigaMetrica{}},
		{database.CollUsers, models.User{}},
	}
	for _, target := range indexTargets {
		if err := database.CreateIndexes(ctx, store.DB.Collection(target.name), target.model); err != nil {
			log.Fatalf("Erro ao criar índices de %s: %v", target.name, err)
		}
	}

	log.WithField("database", cfg.MongoDB_DBName).Info("MongoDB pronto")
	return store
}

// BuildHandlers monta os services e handlers com as dependências
// injetadas.
func BuildHandlers(store *database.Store) router.Handlers {
	cfg := global.ServerConfig

	issuer := auth.NewTokenIssuer(cfg.JwtSecret, cfg.JwtAlgorithm, cfg.JwtExpireMinutes)

	userService := services.NewUserService(store, issuer)
	analyticsService := services.NewAnalyticsService(store)
	pedidoService := services.NewPedidoService(store)
	dashboardService := services.NewDashboardService(store)
	importService := services.NewImportService(store)

	return router.Handlers{
		User:      handler.NewUserHandler(userService),
		Analytics: handler.NewAnalyticsHandler(analyticsService),
		Pedido:    handler.NewPedidoHandler(pedidoService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Upload:    handler.NewUploadHandler(importService),
		Auth:      middleware.NewAuthMiddleware(issuer, userService),
	}
}

// initLogger sobe o sistema de log antes de qualquer outra coisa.
func initLogger() {
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("falha ao inicializar o logger: %v", err))
	}
	logger.GetAppLogger().Info("Logger inicializado")
}
