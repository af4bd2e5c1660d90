package handler

import (
	"encoding/json"
	"strings"

	"worklinkph/internal/delivery/http/dto"
	"worklinkph/internal/delivery/http/middleware"
	"worklinkph/internal/pkg/response"
	"worklinkph/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type UserHandler struct {
	uc usecase.UserUsecase
}

type onboardingRequest struct {
	Completed *bool           `json:"completed"`
	Progress  json.RawMessage `json:"progress"`
}

type avatarURLRequest struct {
	AvatarURL string `json:"avatarUrl"`
}

func NewUserHandler(uc usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

// RegisterRoutes expects r to already require authentication.
func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/profile", h.GetProfile)
	r.Put("/profile", h.UpdateProfile)
	r.Delete("/profile", h.DeleteProfile)
	r.Put("/onboarding", h.SaveOnboarding)
	r.Post("/upload-avatar", h.UploadAvatar)
}

func (h *UserHandler) GetProfile(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	prof, err := h.uc.GetProfile(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "", dto.UserEnvelope{User: dto.NewUserResponse(prof)})
}

func (h *UserHandler) UpdateProfile(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &fields); err != nil {
		return badPayload(err)
	}

	prof, err := h.uc.UpdateProfile(c.Context(), userID, fields)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Profile updated successfully", dto.UserEnvelope{User: dto.NewUserResponse(prof)})
}

func (h *UserHandler) DeleteProfile(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	if err := h.uc.DeleteAccount(c.Context(), userID); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Account deleted successfully", nil)
}

func (h *UserHandler) SaveOnboarding(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req onboardingRequest
	if body := c.Body(); len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			return badPayload(err)
		}
	}

	prof, err := h.uc.SaveOnboarding(c.Context(), userID, req.Completed, req.Progress)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Onboarding progress saved successfully", dto.UserEnvelope{User: dto.NewUserResponse(prof)})
}

// UploadAvatar accepts either a multipart "avatar" file, which is pushed to
// object storage, or a JSON body carrying an already hosted avatarUrl.
func (h *UserHandler) UploadAvatar(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	if strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm) {
		fh, err := c.FormFile("avatar")
		if err != nil {
			return mapUsecaseError(usecase.ErrAvatarRequired)
		}
		f, err := fh.Open()
		if err != nil {
			return badPayload(err)
		}
		defer f.Close()

		prof, err := h.uc.UploadAvatar(c.Context(), userID, usecase.AvatarUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(fiber.HeaderContentType),
			Size:        fh.Size,
			Body:        f,
		})
		if err != nil {
			return mapUsecaseError(err)
		}
		return response.Success(c, fiber.StatusOK, "Avatar updated successfully", dto.UserEnvelope{User: dto.NewUserResponse(prof)})
	}

	var req avatarURLRequest
	if body := c.Body(); len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			return badPayload(err)
		}
	}

	prof, err := h.uc.SetAvatarURL(c.Context(), userID, req.AvatarURL)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Avatar updated successfully", dto.UserEnvelope{User: dto.NewUserResponse(prof)})
}

func currentUserID(c fiber.Ctx) (uuid.UUID, error) {
	id, ok := middleware.UserIDFrom(c)
	if !ok {
		return uuid.Nil, middleware.NewAppError(fiber.StatusUnauthorized, middleware.MessageAuthRequired, nil, nil)
	}
	return id, nil
}
