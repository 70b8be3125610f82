// Package router wires the controllers to their routes.
package router

import (
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/config"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/controllers"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/middleware"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// New builds the API router. adminAuth validates super-admin tokens; main
// passes middleware.EnsureValidToken and tests pass middleware.CheckJWT
// with a fake validator.
func New(cfg *config.Config, ctl *controllers.Controller, adminAuth gin.HandlerFunc, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(cfg.AllowedOrigins()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", ctl.HealthCheck)
		v1.GET("/database/status", ctl.DatabaseStatus)

		store := v1.Group("/stores/:slug", middleware.ResolveStore(ctl.Stores, logger))
		{
			store.GET("", ctl.GetStore)
			store.GET("/menu", ctl.GetMenu)
			store.POST("/menu/orders", ctl.PlaceCustomerOrder)
			store.POST("/login", ctl.Login)

			staff := store.Group("", middleware.RequireStaff(ctl.Sessions))
			{
				staff.POST("/logout", ctl.Logout)

				staff.GET("/orders", ctl.ListOrders)
				staff.POST("/orders", ctl.CreateOrder)
				staff.GET("/orders/:id", ctl.GetOrder)
				staff.PATCH("/orders/:id/status", ctl.UpdateOrderStatus)
				staff.PATCH("/orders/:id/courier", middleware.RequireRole(models.RoleManager, models.RoleAttendant), ctl.AssignCourier)
				staff.GET("/deliveries", middleware.RequireRole(models.RoleManager, models.RoleCourier), ctl.ListDeliveries)
				staff.POST("/deliveries/:id/accept", middleware.RequireRole(models.RoleCourier), ctl.AcceptDelivery)

				pos := staff.Group("/register", middleware.RequireRole(models.RoleManager, models.RoleAttendant))
				{
					pos.GET("", ctl.GetRegister)
					pos.POST("/open", ctl.OpenRegister)
					pos.POST("/movements", ctl.AddMovement)
					pos.POST("/close", ctl.CloseRegister)
				}

				manager := staff.Group("", middleware.RequireRole(models.RoleManager))
				{
					manager.PUT("/products", ctl.UpsertProduct)
					manager.DELETE("/products/:id", ctl.DeleteProduct)
					manager.POST("/categories", ctl.CreateCategory)
					manager.DELETE("/categories/:name", ctl.DeleteCategory)
					manager.GET("/waitstaff", ctl.ListWaitstaff)
					manager.POST("/waitstaff", ctl.CreateWaitstaff)
					manager.DELETE("/waitstaff/:id", ctl.DeleteWaitstaff)
					manager.PUT("/settings", ctl.UpdateSettings)
				}
			}
		}

		admin := v1.Group("/admin", adminAuth, middleware.RequireScope(middleware.AdminScope))
		{
			admin.POST("/stores", ctl.CreateStore)
			admin.PATCH("/stores/:id/active", ctl.SetStoreActive)
			admin.DELETE("/stores/:id", ctl.DeleteStore)
			admin.GET("/backup", ctl.Backup)
			admin.POST("/restore", ctl.Restore)
			admin.POST("/backups", ctl.ArchiveBackup)
			admin.GET("/backups/url", ctl.BackupURL)
			admin.DELETE("/backups", ctl.DeleteArchive)
			admin.POST("/backups/restore", ctl.RestoreArchive)
		}
	}

	return router
}
