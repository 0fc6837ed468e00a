package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"xrgi-portal/backend/config"
	"xrgi-portal/backend/database"
	"xrgi-portal/backend/routes"
)

func main() {
	cfg := config.Load()
	if err := database.Connect(context.Background(), cfg.DatabaseURL); err != nil {
		log.Fatalf("db error: %v", err)
	}
	database.EnsureSchema()
	if cfg.SeedSampleData {
		database.SeedSampleData()
	}
	r := gin.Default()
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept-Language")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})
	routes.Register(r, cfg, database.NewStore(database.Pool))
	log.Printf("server on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
