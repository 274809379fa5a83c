// cmd/server/main.go
package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/gabibigol/pos-venda/config"
	"github.com/gabibigol/pos-venda/internal/audit"
	"github.com/gabibigol/pos-venda/internal/export"
	"github.com/gabibigol/pos-venda/internal/finance"
	"github.com/gabibigol/pos-venda/internal/handlers"
	"github.com/gabibigol/pos-venda/internal/middleware"
	"github.com/gabibigol/pos-venda/internal/reports"
	"github.com/gabibigol/pos-venda/internal/routes"
	"github.com/gabibigol/pos-venda/models"
)

func main() {
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("Variável de ambiente JWT_SECRET não definida")
		os.Exit(1)
	}

	db, err := config.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		slog.Error("Falha ao conectar ao banco de dados", "error", err)
		os.Exit(1)
	}
	slog.Info("Conexão com o banco de dados estabelecida")

	if err := db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.ServiceOrder{},
		&models.FinancialTransaction{},
	); err != nil {
		slog.Error("Falha ao migrar o esquema", "error", err)
		os.Exit(1)
	}

	rdb := config.ConnectRedis(cfg.RedisAddr)

	auditLog, err := audit.New(audit.Config{Dir: cfg.AuditLogDir, Mirror: os.Stdout})
	if err != nil {
		slog.Error("Falha ao iniciar o log de auditoria", "error", err)
		os.Exit(1)
	}
	defer auditLog.Close()

	renderer := export.NewRenderer()
	financeSvc := finance.NewService(finance.NewGormTransactionStore(db), renderer)
	reportSvc := reports.NewService(
		reports.NewGormMetricsStore(db),
		reports.NewGormTechnicianDirectory(db),
		renderer,
	)

	jwtKey := []byte(cfg.JWTSecret)
	auth := middleware.NewAuth(db, rdb, jwtKey, auditLog)

	r := gin.Default()
	routes.SetupRoutes(r, routes.Deps{
		Auth:      auth,
		AuthAPI:   handlers.NewAuthHandler(db, jwtKey, auditLog),
		Financial: handlers.NewFinancialHandler(financeSvc, auditLog),
		Reports:   handlers.NewReportHandler(reportSvc, auditLog),
	})

	slog.Info("Servidor iniciado", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		slog.Error("Servidor encerrado com erro", "error", err)
		os.Exit(1)
	}
}
