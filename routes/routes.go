package routes

import (
	"github.com/gin-gonic/gin"

	"xrgi-portal/backend/config"
	"xrgi-portal/backend/controllers"
	"xrgi-portal/backend/middlewares"
)

func Register(r *gin.Engine, cfg config.Config, store controllers.Store) {
	api := r.Group("/api")
	api.Use(middlewares.Language(cfg.DefaultLanguage))
	{
		api.GET("/portals", controllers.Portals())

		auth := api.Group("/auth")
		auth.POST("/signup", controllers.Signup(cfg, store))
		auth.POST("/login", controllers.Login(cfg, store))
		auth.POST("/password-reset/request", controllers.RequestPasswordReset(cfg, store))
		auth.POST("/password-reset/confirm", controllers.ConfirmPasswordReset(store))

		priv := api.Group("/")
		priv.Use(middlewares.Auth(cfg.JWTSecret))
		priv.GET("me", controllers.Me(store))

		// Registration wizard
		priv.POST("registrations/validate", controllers.ValidateRegistration(cfg))
		priv.POST("registrations/distribution", controllers.CalcDistribution(cfg))
		priv.POST("registrations", controllers.CreateRegistration(cfg, store))
		priv.GET("registrations", controllers.ListRegistrations(store))
		priv.GET("registrations/:id", controllers.GetRegistration(store))
		priv.PUT("registrations/:id/installation", controllers.UpdateInstallation(cfg, store))
		priv.GET("registrations/:id/distribution.xlsx", controllers.ExportDistribution(store))

		// Fleet
		priv.GET("devices", controllers.ListDevices(store))
		priv.GET("devices/summary", controllers.DeviceSummary(store))
		priv.POST("devices/import", controllers.ImportDevices(store))
		priv.GET("devices/:xrgi", controllers.GetDevice(store))
		priv.PUT("devices/:xrgi/configuration", controllers.UpdateConfiguration(store))

		// Service
		priv.GET("devices/:xrgi/calls", controllers.ListCalls(store))
		priv.GET("devices/:xrgi/statistics", controllers.DeviceStatistics(store))
		priv.GET("devices/:xrgi/reports", controllers.ListReports(store))
		priv.POST("devices/:xrgi/reports", controllers.CreateReport(cfg, store))
		priv.GET("devices/:xrgi/reports.xlsx", controllers.ExportReports(store))
		priv.GET("calls/:id", controllers.GetCall(store))
		priv.GET("reports/:id", controllers.GetReport(store))
	}
}
