package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samueladole/crovio/internal/api/dto"
	"github.com/samueladole/crovio/internal/auth"
	"github.com/samueladole/crovio/internal/service"
	apperrors "github.com/samueladole/crovio/pkg/util/errorutil"
)

// AuthHandler exposes registration and session endpoints.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Register POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if err := req.Validate(); err != nil {
		return dto.ValidationError(err)
	}

	user, err := h.service.Register(c.UserContext(), service.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		Phone:       req.Phone,
		Username:    req.Username,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Location:    req.Location,
		AcceptTerms: req.AcceptTerms,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewRegisterResponse(user))
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if err := req.Validate(); err != nil {
		return dto.ValidationError(err)
	}

	pair, err := h.service.Login(c.UserContext(), service.LoginInput{
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewLoginResponse(pair))
}

// Refresh POST /auth/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	req, err := parseRefresh(c)
	if err != nil {
		return err
	}

	access, err := h.service.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(dto.RefreshResponse{AccessToken: access.Token, TokenType: access.TokenType})
}

// Logout POST /auth/logout. The bearer access token, when present, is
// revoked along with the refresh token.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	req, err := parseRefresh(c)
	if err != nil {
		return err
	}

	accessToken, _ := auth.BearerToken(c.Get(fiber.HeaderAuthorization))
	if err := h.service.Logout(c.UserContext(), req.RefreshToken, accessToken); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Me GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	subject, ok := auth.SubjectFromContext(c)
	if !ok {
		return auth.ErrUnauthenticated
	}
	return c.JSON(dto.MeResponse{UserID: subject.String()})
}

func parseRefresh(c *fiber.Ctx) (*dto.RefreshRequest, error) {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, apperrors.NewBadRequest("invalid payload")
	}
	req.Normalize()
	if !req.Present() {
		return nil, auth.ErrUnauthenticated
	}
	return &req, nil
}
