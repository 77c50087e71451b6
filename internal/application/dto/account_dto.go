package dto

import "github.com/shopspring/decimal"

// OnboardRequest campos de formulario de POST /onboard (multipart).
type OnboardRequest struct {
	CompanyName   string           `form:"companyName"`
	Address       string           `form:"address"`
	Phone         string           `form:"phone"`
	Currency      string           `form:"currency"`
	TaxRate       *decimal.Decimal `form:"-"` // nil si no se envió
	BankName      string           `form:"bankName"`
	AccountNumber string           `form:"accountNumber"`
	AccountName   string           `form:"accountName"`
}

// OnboardResponse respuesta del onboarding.
type OnboardResponse struct {
	Message string          `json:"message"`
	User    AccountResponse `json:"user"`
}

// ProfileReview datos del emisor para GET /api/review.
type ProfileReview struct {
	CompanyName string `json:"companyName"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
}

// ProfileReviewResponse envoltorio de GET /api/review.
type ProfileReviewResponse struct {
	User ProfileReview `json:"user"`
}
