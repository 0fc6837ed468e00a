package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"xrgi-portal/backend/middlewares"
)

func Me(store UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt64(middlewares.UserIDKey)
		ctx, cancel := dbContext(c)
		defer cancel()
		u, err := store.UserByID(ctx, uid)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": u, "portal": c.GetString(middlewares.PortalKey)})
	}
}
