package models

type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Company  string `json:"company"`
	Password string `json:"password" binding:"required"`
	Confirm  string `json:"confirm_password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Portal   string `json:"portal"`
}

type PasswordResetRequest struct {
	Email string `json:"email" binding:"required"`
}

type PasswordResetConfirm struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
	Confirm  string `json:"confirm_password" binding:"required"`
}
