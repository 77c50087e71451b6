package dto

import "time"

// SignupRequest body para POST /api/auth/signup.
type SignupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword,omitempty"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AccountResponse salida de una cuenta (sin credenciales).
type AccountResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	IsVerified   bool      `json:"isVerified"`
	IsOnboarded  bool      `json:"isOnboarded"`
	CompanyName  string    `json:"companyName"`
	Address      string    `json:"address"`
	Phone        string    `json:"phone"`
	SignatureURL string    `json:"signatureUrl"`
	CreatedAt    time.Time `json:"createdAt"`
}

// LoginResponse token de sesión y perfil.
type LoginResponse struct {
	Message string          `json:"message"`
	Token   string          `json:"token"`
	User    AccountResponse `json:"user"`
}

// FederatedLoginResult resultado del callback de Google, antes de redirigir al frontend.
type FederatedLoginResult struct {
	Token string
	User  AccountResponse
}
