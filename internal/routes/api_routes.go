// internal/routes/api_routes.go
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/gabibigol/pos-venda/models"
)

// RegisterAPIRoutes registers every authenticated API route.
func RegisterAPIRoutes(api *gin.RouterGroup, d Deps) {
	apiGroup := api.Group("/api")
	{
		// --- FINANCEIRO ---
		financial := apiGroup.Group("/financial")
		{
			financial.GET("/summary", d.Financial.GetSummaryHandler)
			financial.GET("/income", d.Financial.ListIncomeHandler)
			financial.GET("/expenses", d.Financial.ListExpensesHandler)
			financial.GET("/cash-flow", d.Financial.CashFlowHandler)
			financial.POST("/transactions", d.Financial.CreateTransactionHandler)
			financial.GET("/export",
				d.Auth.RequireRole(models.RoleManager), d.Financial.ExportReportHandler)
			financial.GET("/transactions/export",
				d.Auth.RequireRole(models.RoleManager), d.Financial.ExportTransactionsHandler)
		}

		// --- RELATÓRIOS ---
		reports := apiGroup.Group("/reports")
		{
			// Técnicos podem consultar o próprio relatório; o consolidado e
			// as exportações ficam restritos à gerência.
			reports.GET("/technicians",
				d.Auth.RequireRole(models.RoleManager, models.RoleTechnician),
				d.Reports.TechnicianReportHandler)
			reports.GET("/consolidated",
				d.Auth.RequireRole(models.RoleManager), d.Reports.ConsolidatedReportHandler)
			reports.GET("/export",
				d.Auth.RequireRole(models.RoleManager), d.Reports.ExportConsolidatedHandler)
		}
	}
}
