package http

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoicegen-api/internal/application/auth"
	"github.com/jhoicas/invoicegen-api/internal/application/dto"
	"github.com/jhoicas/invoicegen-api/pkg/logger"
)

// AuthHandler registro, verificación de email, login y login con Google.
type AuthHandler struct {
	uc          *auth.AuthUseCase
	frontendURL string
	log         *logger.Logger
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, frontendURL string, log *logger.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, frontendURL: strings.TrimRight(frontendURL, "/"), log: log}
}

// Signup godoc
// @Summary      Registrar cuenta
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SignupRequest  true  "name, email, password"
// @Success      201   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var in dto.SignupRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody()
	}
	out, err := h.uc.Signup(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// VerifyEmail godoc
// @Summary      Verificar email
// @Tags         auth
// @Produce      json
// @Param        token  path  string  true  "token de verificación"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/auth/verify-email/{token} [get]
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	out, err := h.uc.VerifyEmail(c.UserContext(), c.Params("token"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody()
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GoogleLogin redirige a la pantalla de consentimiento de Google.
// GET /api/google
func (h *AuthHandler) GoogleLogin(c *fiber.Ctx) error {
	target, err := h.uc.FederatedLoginURL()
	if err != nil {
		return err
	}
	return c.Redirect(target, fiber.StatusFound)
}

// GoogleCallback completa el login federado y redirige al frontend con el token en la query.
// GET /api/auth/google/callback
func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	res, err := h.uc.FederatedCallback(c.UserContext(), c.Query("code"), c.Query("state"))
	if err != nil {
		h.log.Warn().Err(err).Msg("login con Google fallido")
		return c.Redirect(h.frontendURL+"/login?error=google_auth_failed", fiber.StatusFound)
	}
	q := url.Values{}
	q.Set("token", res.Token)
	q.Set("name", res.User.Name)
	q.Set("email", res.User.Email)
	q.Set("id", res.User.ID)
	q.Set("isOnboarded", strconv.FormatBool(res.User.IsOnboarded))
	return c.Redirect(h.frontendURL+"/auth-success?"+q.Encode(), fiber.StatusFound)
}
