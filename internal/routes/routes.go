package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"zapcrm/internal/authz"
	"zapcrm/internal/handlers"
	"zapcrm/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	leadHandler *handlers.LeadHandler,
	pipelineHandler *handlers.PipelineHandler,
	activityHandler *handlers.ActivityHandler,
	whatsappHandler *handlers.WhatsappHandler,
	reportHandler *handlers.ReportHandler,
	prefsHandler *handlers.PrefsHandler,
	integrationsHandler *handlers.IntegrationsHandler,
) *gin.Engine {

	// ---- public
	r.POST("/login", authHandler.Login)
	r.POST("/refresh", authHandler.Refresh)
	r.POST("/auth/forgot-password", authHandler.ForgotPassword)
	r.POST("/auth/reset-password", authHandler.ResetPassword)

	// webhooks carry their own shared-secret auth
	r.POST("/webhooks/whatsapp", whatsappHandler.Webhook)
	if integrationsHandler != nil && integrationsHandler.Telegram != nil {
		r.POST("/webhooks/telegram", integrationsHandler.TelegramWebhook)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// ---- protected
	r.Use(middleware.AuthMiddleware(jwtSecret))
	r.Use(middleware.RequireApproved())

	// ME (the only surface a pending "nenhum" account can reach)
	r.GET("/me", userHandler.Me)
	r.GET("/me/preferences", prefsHandler.Get)
	r.PATCH("/me/preferences", prefsHandler.Patch)

	// USERS (admin)
	users := r.Group("/users", middleware.RequireCapability(authz.CapManageUsers))
	{
		users.POST("/", userHandler.Create)
		users.GET("/", userHandler.List)
		users.GET("/:id", userHandler.GetByID)
		users.PUT("/:id", userHandler.Update)
		users.DELETE("/:id", userHandler.Delete)
	}
	// team listing feeds the assignment dropdowns, visible to vendedor too
	r.GET("/users/team", middleware.RequireCapability(authz.CapViewLeads), userHandler.Team)

	// LEADS
	leads := r.Group("/leads", middleware.RequireCapability(authz.CapViewLeads))
	{
		leads.GET("/", leadHandler.List)
		leads.POST("/", leadHandler.Create)
		leads.GET("/:id", leadHandler.GetByID)
		leads.PUT("/:id", leadHandler.Update)
		leads.DELETE("/:id", leadHandler.Delete)
		leads.POST("/:id/status", leadHandler.UpdateStatus)
		leads.POST("/:id/assign", middleware.RequireCapability(authz.CapAssignLeads), leadHandler.Assign)

		leads.POST("/import", middleware.RequireCapability(authz.CapImportLeads), leadHandler.Import)
		leads.GET("/import/template", leadHandler.ImportTemplate)

		leads.GET("/:id/activities", activityHandler.ListByLead)
		leads.POST("/:id/activities", activityHandler.Create)
	}

	// PIPELINE (kanban board with per-user drag sessions)
	pipeline := r.Group("/pipeline", middleware.RequireCapability(authz.CapViewLeads))
	{
		pipeline.GET("/", pipelineHandler.Board)
		pipeline.POST("/select", pipelineHandler.Select)
		pipeline.POST("/drag/begin", pipelineHandler.BeginDrag)
		pipeline.POST("/drag/end", pipelineHandler.EndDrag)
	}

	// WHATSAPP CONVERSATIONS
	whatsapp := r.Group("/whatsapp", middleware.RequireCapability(authz.CapViewMessages))
	{
		whatsapp.GET("/conversations", whatsappHandler.Conversations)
		whatsapp.GET("/conversations/:lead_id/messages", whatsappHandler.Messages)
		whatsapp.POST("/conversations/:lead_id/messages", whatsappHandler.Send)
	}

	// REPORTS
	reports := r.Group("/reports", middleware.RequireCapability(authz.CapViewReports))
	{
		reports.GET("/summary", reportHandler.Summary)
		reports.GET("/summary/pdf", reportHandler.SummaryPDF)
	}

	// INTEGRATIONS
	if integrationsHandler != nil {
		integr := r.Group("/integrations")
		{
			integr.POST("/telegram/request-link", integrationsHandler.RequestTelegramLink)
		}
	}

	return r
}
