package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"xrgi-portal/backend/config"
	"xrgi-portal/backend/database"
	"xrgi-portal/backend/i18n"
	"xrgi-portal/backend/models"
	"xrgi-portal/backend/registration"
	"xrgi-portal/backend/utils"
)

const minPasswordLength = 8

// checkPassword returns the field errors for a new password and its confirmation.
func checkPassword(password, confirm string) map[string]string {
	errs := map[string]string{}
	if len(password) < minPasswordLength {
		errs["password"] = i18n.MsgPasswordTooShort
	}
	if password != confirm {
		errs["confirm_password"] = i18n.MsgPasswordMismatch
	}
	return errs
}

func Signup(cfg config.Config, store UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SignupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		email := normalizeEmail(req.Email)
		errs := checkPassword(req.Password, req.Confirm)
		if !registration.ValidEmail(email) {
			errs["email"] = registration.MsgInvalidEmail
		}
		if len(errs) > 0 {
			respondInvalid(c, errs)
			return
		}
		pwHash, err := utils.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "hash error"})
			return
		}

		ctx, cancel := dbContext(c)
		defer cancel()
		id, err := store.CreateUser(ctx, models.User{
			Name:         strings.TrimSpace(req.Name),
			Company:      strings.TrimSpace(req.Company),
			Email:        email,
			PasswordHash: pwHash,
		})
		if errors.Is(err, database.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": translate(c, i18n.MsgEmailTaken)})
			return
		}
		if err != nil {
			log.Printf("signup error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		token, err := utils.GenerateJWT(cfg.JWTSecret, id, "", cfg.JWTTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"token": token})
	}
}

func Login(cfg config.Config, store UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		if req.Portal != "" && !models.ValidPortal(req.Portal) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown portal"})
			return
		}
		ctx, cancel := dbContext(c)
		defer cancel()
		u, err := store.UserByEmail(ctx, normalizeEmail(req.Email))
		if err != nil && !errors.Is(err, database.ErrNotFound) {
			log.Printf("login lookup error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if err != nil || !utils.CheckPasswordHash(req.Password, u.PasswordHash) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": translate(c, i18n.MsgInvalidCredentials)})
			return
		}
		token, err := utils.GenerateJWT(cfg.JWTSecret, u.ID, req.Portal, cfg.JWTTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "user": u})
	}
}

// RequestPasswordReset answers 200 whether or not the address is known.
func RequestPasswordReset(cfg config.Config, store UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.PasswordResetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		ctx, cancel := dbContext(c)
		defer cancel()
		resp := gin.H{"status": "ok"}
		u, err := store.UserByEmail(ctx, normalizeEmail(req.Email))
		switch {
		case errors.Is(err, database.ErrNotFound):
		case err != nil:
			log.Printf("reset lookup error: %v", err)
		default:
			token := uuid.NewString()
			if err := store.CreateResetToken(ctx, u.ID, token, time.Now().Add(cfg.ResetTokenTTL)); err != nil {
				// Same answer as an unknown address.
				log.Printf("reset token error: %v", err)
				break
			}
			if cfg.ReturnResetToken {
				resp["token"] = token
			}
		}
		c.JSON(http.StatusOK, resp)
	}
}

func ConfirmPasswordReset(store UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.PasswordResetConfirm
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		if errs := checkPassword(req.Password, req.Confirm); len(errs) > 0 {
			respondInvalid(c, errs)
			return
		}
		pwHash, err := utils.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "hash error"})
			return
		}
		ctx, cancel := dbContext(c)
		defer cancel()
		err = store.ResetPassword(ctx, strings.TrimSpace(req.Token), pwHash, time.Now())
		if errors.Is(err, database.ErrTokenInvalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": translate(c, i18n.MsgResetTokenInvalid)})
			return
		}
		if err != nil {
			log.Printf("reset password error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func Portals() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"items": models.Portals()})
	}
}
