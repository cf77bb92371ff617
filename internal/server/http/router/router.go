package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/anyschool/order-service/internal/domain/model"
	"github.com/anyschool/order-service/internal/server/http/handlers"
	"github.com/anyschool/order-service/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware. Route groups give
// a coarse role gate; the lifecycle table re-checks the actor precisely.
func Setup(facade handlers.MarketplaceFacade, stats handlers.StatsSource, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	purchasingHandler := handlers.NewPurchasingHandler(facade, stats)
	adminHandler := handlers.NewAdminHandler(facade)
	schoolHandler := handlers.NewSchoolHandler(facade)

	api := engine.Group("/api")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(facade))

	authed.POST("/orders", orderHandler.Create)
	authed.GET("/orders", orderHandler.List)
	authed.GET("/orders/:id", orderHandler.Get)
	authed.GET("/orders/:id/actions", orderHandler.Actions)
	authed.PUT("/orders/:id/status", orderHandler.UpdateStatus)
	authed.POST("/orders/:id/final", orderHandler.MarkFinal)
	authed.POST("/orders/:id/items", orderHandler.AddItem)
	authed.PUT("/orders/:id/items/:itemID", orderHandler.UpdateItem)
	authed.DELETE("/orders/:id/items/:itemID", orderHandler.RemoveItem)

	authed.GET("/schools", schoolHandler.List)
	authed.POST("/schools", schoolHandler.Request)
	authed.POST("/schools/:id/students", middleware.RequireRoles(model.RoleSchoolAdmin, model.RoleSuperAdmin), schoolHandler.AddStudent)

	purchasing := authed.Group("/purchasing")
	purchasing.Use(middleware.RequireRoles(model.RolePurchasingAdmin, model.RoleSuperAdmin))
	purchasing.POST("/orders/:id/acknowledge", purchasingHandler.Acknowledge)
	purchasing.POST("/orders/:id/start-processing", purchasingHandler.StartProcessing)
	purchasing.POST("/orders/:id/verify-payment", purchasingHandler.VerifyPayment)
	purchasing.POST("/orders/:id/send-for-delivery", purchasingHandler.SendForDelivery)
	purchasing.POST("/orders/:id/mark-delivered", purchasingHandler.MarkDelivered)
	purchasing.POST("/orders/:id/close", purchasingHandler.Close)
	purchasing.POST("/orders/:id/return", purchasingHandler.Return)
	purchasing.POST("/orders/:id/mark-payment", purchasingHandler.MarkPayment)
	purchasing.GET("/orders/stats", purchasingHandler.Stats)

	admin := authed.Group("/admin")
	admin.Use(middleware.RequireRoles(model.RoleSuperAdmin))
	admin.POST("/orders/:id/approve", adminHandler.Approve)
	admin.POST("/orders/:id/decline", adminHandler.Decline)
	admin.DELETE("/orders/:id", adminHandler.Delete)
	admin.POST("/schools/:id/approve", adminHandler.ApproveSchool)

	return engine
}
