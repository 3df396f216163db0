package router

import (
	"time"

	"github.com/snptech2/snp-fin-sub002/api"
	"github.com/snptech2/snp-fin-sub002/config"
	_ "github.com/snptech2/snp-fin-sub002/docs"
	"github.com/snptech2/snp-fin-sub002/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter builds the gin engine with all routes registered.
func SetupRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	r.Use(CORSMiddleware())

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		// authentication (no token required)
		authHandler := api.NewAuthHandler(cfg)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", middleware.LoginRateLimit(10, time.Minute), authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
		}

		// everything below requires a valid token
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth())
		{
			authorized.GET("/auth/me", authHandler.Me)
			authorized.PUT("/auth/password", authHandler.ChangePassword)
			authorized.PUT("/auth/currency", authHandler.UpdateCurrency)

			accountHandler := api.NewAccountHandler()
			accounts := authorized.Group("/accounts")
			{
				accounts.GET("", accountHandler.List)
				accounts.POST("", accountHandler.Create)
				accounts.GET("/:id", accountHandler.Get)
				accounts.PUT("/:id", accountHandler.Update)
				accounts.DELETE("/:id", accountHandler.Delete)
			}

			categoryHandler := api.NewCategoryHandler()
			categories := authorized.Group("/categories")
			{
				categories.GET("", categoryHandler.List)
				categories.POST("", categoryHandler.Create)
				categories.PUT("/:id", categoryHandler.Update)
				categories.DELETE("/:id", categoryHandler.Delete)
			}

			transactionHandler := api.NewTransactionHandler()
			transactions := authorized.Group("/transactions")
			{
				transactions.GET("", transactionHandler.List)
				transactions.POST("", transactionHandler.Create)
				transactions.GET("/summary", transactionHandler.Summary)
				transactions.GET("/:id", transactionHandler.Get)
				transactions.PUT("/:id", transactionHandler.Update)
				transactions.DELETE("/:id", transactionHandler.Delete)
			}

			transferHandler := api.NewTransferHandler()
			transfers := authorized.Group("/transfers")
			{
				transfers.GET("", transferHandler.List)
				transfers.POST("", transferHandler.Create)
				transfers.DELETE("/:id", transferHandler.Delete)
			}

			budgetHandler := api.NewBudgetHandler()
			budgets := authorized.Group("/budgets")
			{
				budgets.GET("", budgetHandler.List)
				budgets.POST("", budgetHandler.Create)
				budgets.PUT("/:id", budgetHandler.Update)
				budgets.DELETE("/:id", budgetHandler.Delete)
			}

			pivaHandler := api.NewPartitaIVAHandler()
			piva := authorized.Group("/partita-iva")
			{
				piva.GET("/config", pivaHandler.GetConfig)
				piva.PUT("/config", pivaHandler.UpdateConfig)
				piva.DELETE("/config", pivaHandler.DeleteConfig)
				piva.GET("/configs", pivaHandler.ListConfigs)
				piva.GET("/incomes", pivaHandler.ListIncomes)
				piva.POST("/incomes", pivaHandler.CreateIncome)
				piva.PUT("/incomes/:id", pivaHandler.UpdateIncome)
				piva.DELETE("/incomes/:id", pivaHandler.DeleteIncome)
				piva.GET("/tax-payments", pivaHandler.ListPayments)
				piva.POST("/tax-payments", pivaHandler.CreatePayment)
				piva.DELETE("/tax-payments/:id", pivaHandler.DeletePayment)
				piva.GET("/stats", pivaHandler.Stats)
				piva.GET("/stats/global", pivaHandler.GlobalStats)
			}

			cryptoHandler := api.NewCryptoHandler()
			crypto := authorized.Group("/crypto")
			{
				crypto.GET("/portfolios", cryptoHandler.ListPortfolios)
				crypto.POST("/portfolios", cryptoHandler.CreatePortfolio)
				crypto.PUT("/portfolios/:id", cryptoHandler.UpdatePortfolio)
				crypto.DELETE("/portfolios/:id", cryptoHandler.DeletePortfolio)
				crypto.GET("/trades", cryptoHandler.ListTrades)
				crypto.POST("/trades", cryptoHandler.CreateTrade)
				crypto.PUT("/trades/:id/close", cryptoHandler.CloseTrade)
				crypto.DELETE("/trades/:id", cryptoHandler.DeleteTrade)
				crypto.GET("/prices", cryptoHandler.Prices)
			}

			creditHandler := api.NewCreditHandler()
			credits := authorized.Group("/credits")
			{
				credits.GET("", creditHandler.List)
				credits.POST("", creditHandler.Create)
				credits.PUT("/:id", creditHandler.Update)
				credits.DELETE("/:id", creditHandler.Delete)
			}

			assetHandler := api.NewAssetHandler()
			assets := authorized.Group("/non-current-assets")
			{
				assets.GET("", assetHandler.List)
				assets.POST("", assetHandler.Create)
				assets.PUT("/:id", assetHandler.Update)
				assets.DELETE("/:id", assetHandler.Delete)
			}

			netWorthHandler := api.NewNetWorthHandler()
			networth := authorized.Group("/networth")
			{
				networth.GET("/snapshots", netWorthHandler.List)
				networth.POST("/snapshots", netWorthHandler.Create)
				networth.DELETE("/snapshots/:id", netWorthHandler.Delete)
			}

			exportHandler := api.NewExportHandler()
			export := authorized.Group("/export")
			{
				export.GET("/csv", exportHandler.ExportCSV)
				export.GET("/xlsx", exportHandler.ExportXLSX)
			}
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware CORS middleware
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
