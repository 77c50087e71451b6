package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoicegen-api/internal/application/dto"
	"github.com/jhoicas/invoicegen-api/internal/application/onboarding"
	"github.com/jhoicas/invoicegen-api/internal/domain"
)

// SignatureField campo multipart con la imagen de firma.
const SignatureField = "signature"

// OnboardingHandler perfil de empresa de la cuenta autenticada.
type OnboardingHandler struct {
	uc *onboarding.OnboardingUseCase
}

// NewOnboardingHandler construye el handler.
func NewOnboardingHandler(uc *onboarding.OnboardingUseCase) *OnboardingHandler {
	return &OnboardingHandler{uc: uc}
}

// Onboard godoc
// @Summary      Completar perfil de empresa
// @Tags         onboarding
// @Accept       multipart/form-data
// @Produce      json
// @Param        companyName  formData  string  true   "nombre de la empresa"
// @Param        address      formData  string  true   "dirección"
// @Param        phone        formData  string  true   "teléfono"
// @Param        signature    formData  file    false  "imagen de firma"
// @Success      200   {object}  dto.OnboardResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      415   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /onboard [post]
func (h *OnboardingHandler) Onboard(c *fiber.Ctx) error {
	var in dto.OnboardRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody()
	}
	if raw := strings.TrimSpace(c.FormValue("taxRate")); raw != "" {
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			v := &domain.ValidationError{}
			v.Add("taxRate", "debe ser numérico")
			return v
		}
		in.TaxRate = &rate
	}

	var upload *onboarding.Upload
	if form, err := c.MultipartForm(); err == nil {
		if files := form.File[SignatureField]; len(files) > 0 {
			fh := files[0]
			f, err := fh.Open()
			if err != nil {
				return err
			}
			defer f.Close()
			upload = &onboarding.Upload{
				Filename:    fh.Filename,
				ContentType: fh.Header.Get(fiber.HeaderContentType),
				Reader:      f,
			}
		}
	}

	out, err := h.uc.Complete(c.UserContext(), GetAuthContext(c), in, upload)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Review godoc
// @Summary      Datos del emisor
// @Tags         onboarding
// @Produce      json
// @Success      200   {object}  dto.ProfileReviewResponse
// @Security     BearerAuth
// @Router       /api/review [get]
func (h *OnboardingHandler) Review(c *fiber.Ctx) error {
	return c.JSON(h.uc.Profile(c.UserContext(), GetAuthContext(c)))
}
