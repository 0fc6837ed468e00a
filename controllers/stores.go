package controllers

import (
	"context"
	"time"

	"xrgi-portal/backend/models"
	"xrgi-portal/backend/registration"
)

// UserStore is implemented by database.Store.
type UserStore interface {
	CreateUser(ctx context.Context, u models.User) (int64, error)
	UserByEmail(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, id int64) (models.User, error)
	CreateResetToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	ResetPassword(ctx context.Context, token, passwordHash string, now time.Time) error
}

type RegistrationStore interface {
	CreateRegistration(ctx context.Context, r models.Registration, d models.Device) error
	Registration(ctx context.Context, id string, userID int64) (models.Registration, error)
	ListRegistrations(ctx context.Context, userID int64, limit, offset int) ([]models.Registration, error)
	UpdateRegistrationForm(ctx context.Context, id string, userID int64, form registration.Form) error
}

type DeviceStore interface {
	// UpsertDevices writes all devices or none; empty fields keep stored values.
	UpsertDevices(ctx context.Context, devices []models.Device) error
	ListDevices(ctx context.Context, status string, limit, offset int) ([]models.Device, error)
	DeviceSummary(ctx context.Context) (map[string]int, error)
	Device(ctx context.Context, xrgiID string) (models.Device, error)
	UpdateConfiguration(ctx context.Context, xrgiID string, values map[string]any) error
	ActivityCounts(ctx context.Context, xrgiID string) (openCalls, reports int, err error)
}

// ServiceStore serves the service technician screens.
type ServiceStore interface {
	Device(ctx context.Context, xrgiID string) (models.Device, error)
	ListCalls(ctx context.Context, xrgiID string) ([]models.ServiceCall, error)
	Call(ctx context.Context, id int64) (models.ServiceCall, error)
	ListReports(ctx context.Context, xrgiID string) ([]models.ServiceReport, error)
	Report(ctx context.Context, id int64) (models.ServiceReport, error)
	CreateReport(ctx context.Context, r models.ServiceReport) (int64, error)
}

// Store is everything the API needs from persistence.
type Store interface {
	UserStore
	RegistrationStore
	DeviceStore
	ServiceStore
}
