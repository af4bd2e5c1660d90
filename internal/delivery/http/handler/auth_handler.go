package handler

import (
	"encoding/json"
	"strings"

	"worklinkph/internal/delivery/http/dto"
	"worklinkph/internal/delivery/http/middleware"
	"worklinkph/internal/pkg/response"
	"worklinkph/internal/pkg/validate"
	"worklinkph/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const msgResetSent = "If the email exists, a password reset link has been sent."

type AuthHandler struct {
	uc        usecase.AuthUsecase
	validator *validate.Validator
}

type registerRequest struct {
	FirstName       string  `json:"firstName" validate:"min=2"`
	LastName        string  `json:"lastName" validate:"min=2"`
	Email           string  `json:"email" validate:"required,email"`
	Phone           string  `json:"phone" validate:"ph_phone"`
	Password        string  `json:"password" validate:"min=6,has_upper,has_digit"`
	ConfirmPassword string  `json:"confirmPassword" validate:"eqfield=Password"`
	City            *string `json:"city"`
	Province        *string `json:"province"`
	Identity        *string `json:"identity"`
	Skills          *string `json:"skills"`

	JobPreferences json.RawMessage `json:"jobPreferences"`
	Accessibility  json.RawMessage `json:"accessibility"`
	Notifications  json.RawMessage `json:"notifications"`
}

var registerMessages = validate.Messages{
	"firstName":               "First name must be at least 2 characters",
	"lastName":                "Last name must be at least 2 characters",
	"email":                   "Please provide a valid email address",
	"phone":                   "Please provide a valid phone number (09XXXXXXXXX)",
	"password.min":            "Password must be at least 6 characters",
	"password.has_upper":      "Password must contain at least one uppercase letter",
	"password.has_digit":      "Password must contain at least one number",
	"confirmPassword.eqfield": "Passwords do not match",
}

type loginRequest struct {
	EmailOrPhone string `json:"emailOrPhone" validate:"required"`
	Password     string `json:"password" validate:"required"`
}

var loginMessages = validate.Messages{
	"emailOrPhone": "Email or phone number is required",
	"password":     "Password is required",
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

var forgotMessages = validate.Messages{
	"email": "Please provide a valid email address",
}

func NewAuthHandler(uc usecase.AuthUsecase, v *validate.Validator) *AuthHandler {
	if v == nil {
		v = validate.New()
	}
	return &AuthHandler{uc: uc, validator: v}
}

// RegisterRoutes mounts the public endpoints; protected receives /me.
func (h *AuthHandler) RegisterRoutes(r fiber.Router, protected fiber.Handler) {
	if r == nil {
		return
	}

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/forgot-password", h.ForgotPassword)
	r.Get("/me", protected, h.Me)
}

func (h *AuthHandler) Register(c fiber.Ctx) error {
	var req registerRequest
	if err := c.Bind().Body(&req); err != nil {
		return badPayload(err)
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)

	if errs := h.validator.Struct(req, registerMessages); len(errs) > 0 {
		return validationFailed(errs)
	}

	res, err := h.uc.Register(c.Context(), usecase.RegisterInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		Password:       req.Password,
		City:           req.City,
		Province:       req.Province,
		Identity:       req.Identity,
		Skills:         req.Skills,
		JobPreferences: req.JobPreferences,
		Accessibility:  req.Accessibility,
		Notifications:  req.Notifications,
	})
	if err != nil {
		return mapUsecaseError(err)
	}

	data := dto.AuthResponse{User: dto.NewUserResponse(res.User), Token: res.Token}
	return response.Success(c, fiber.StatusCreated, "Account created successfully", data)
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req loginRequest
	if err := c.Bind().Body(&req); err != nil {
		return badPayload(err)
	}
	req.EmailOrPhone = strings.TrimSpace(req.EmailOrPhone)

	if errs := h.validator.Struct(req, loginMessages); len(errs) > 0 {
		return validationFailed(errs)
	}

	res, err := h.uc.Login(c.Context(), usecase.LoginInput{EmailOrPhone: req.EmailOrPhone, Password: req.Password})
	if err != nil {
		return mapUsecaseError(err)
	}

	data := dto.AuthResponse{User: dto.NewUserResponse(res.User), Token: res.Token}
	return response.Success(c, fiber.StatusOK, "Login successful", data)
}

func (h *AuthHandler) ForgotPassword(c fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := c.Bind().Body(&req); err != nil {
		return badPayload(err)
	}
	req.Email = strings.TrimSpace(req.Email)

	if errs := h.validator.Struct(req, forgotMessages); len(errs) > 0 {
		return validationFailed(errs)
	}

	if err := h.uc.ForgotPassword(c.Context(), req.Email); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, msgResetSent, nil)
}

func (h *AuthHandler) Me(c fiber.Ctx) error {
	userID, ok := middleware.UserIDFrom(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, middleware.MessageAuthRequired, nil, nil)
	}

	usr, err := h.uc.Me(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "", dto.UserEnvelope{User: dto.NewUserResponse(usr)})
}
