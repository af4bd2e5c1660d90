package handler

import (
	"encoding/json"

	"worklinkph/internal/delivery/http/dto"
	"worklinkph/internal/delivery/http/middleware"
	"worklinkph/internal/domain/resource"
	"worklinkph/internal/pkg/response"
	"worklinkph/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ResourcesHandler struct {
	uc usecase.ResourceUsecase
}

type createResourceRequest struct {
	Title        string          `json:"title"`
	Organization string          `json:"organization"`
	Category     string          `json:"category"`
	Description  string          `json:"description"`
	Type         string          `json:"type"`
	Link         *string         `json:"link"`
	ContactInfo  json.RawMessage `json:"contact_info"`
}

type updateResourceRequest struct {
	Title        *string `json:"title"`
	Organization *string `json:"organization"`
	Category     *string `json:"category"`
	Description  *string `json:"description"`
	Type         *string `json:"type"`
	Link         *string `json:"link"`
}

func NewResourcesHandler(uc usecase.ResourceUsecase) *ResourcesHandler {
	return &ResourcesHandler{uc: uc}
}

func (h *ResourcesHandler) RegisterRoutes(r fiber.Router, protected fiber.Handler) {
	if r == nil {
		return
	}

	r.Get("/", h.HandleListResources)
	r.Get("/:id", h.HandleGetResource)
	r.Post("/", protected, h.HandleCreateResource)
	r.Put("/:id", protected, h.HandleUpdateResource)
	r.Delete("/:id", protected, h.HandleDeleteResource)
}

func (h *ResourcesHandler) HandleListResources(c fiber.Ctx) error {
	limit, err := parseQueryIntStrict(c, "limit", resource.DefaultLimit)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	offset, err := parseQueryIntStrict(c, "offset", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	items, err := h.uc.ListResources(c.Context(), resource.Filter{
		Search:   c.Query("search"),
		Type:     c.Query("type"),
		Category: c.Query("category"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return mapUsecaseError(err)
	}

	out := dto.NewResourceResponses(items)
	return response.List(c, dto.ResourcesEnvelope{Resources: out}, len(out))
}

func (h *ResourcesHandler) HandleGetResource(c fiber.Ctx) error {
	id, ok := pathUUID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusNotFound, msgResourceMissing, nil, nil)
	}

	r, err := h.uc.GetResource(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "", dto.ResourceEnvelope{Resource: dto.NewResourceResponse(r)})
}

func (h *ResourcesHandler) HandleCreateResource(c fiber.Ctx) error {
	var req createResourceRequest
	if err := c.Bind().Body(&req); err != nil {
		return badPayload(err)
	}

	r, err := h.uc.CreateResource(c.Context(), usecase.CreateResourceInput{
		Title:        req.Title,
		Organization: req.Organization,
		Category:     req.Category,
		Description:  req.Description,
		Type:         req.Type,
		Link:         req.Link,
		ContactInfo:  req.ContactInfo,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Resource created successfully", dto.ResourceEnvelope{Resource: dto.NewResourceResponse(r)})
}

func (h *ResourcesHandler) HandleUpdateResource(c fiber.Ctx) error {
	id, ok := pathUUID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusNotFound, msgResourceMissing, nil, nil)
	}

	var req updateResourceRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return badPayload(err)
	}
	// an explicit null clears contact_info
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &raw); err != nil {
		return badPayload(err)
	}

	p := resource.Patch{
		Title:        req.Title,
		Organization: req.Organization,
		Category:     req.Category,
		Description:  req.Description,
		Type:         req.Type,
		Link:         req.Link,
	}
	if ci, ok := raw["contact_info"]; ok {
		p.ContactInfo = &ci
	}

	r, err := h.uc.UpdateResource(c.Context(), id, p)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Resource updated successfully", dto.ResourceEnvelope{Resource: dto.NewResourceResponse(r)})
}

func (h *ResourcesHandler) HandleDeleteResource(c fiber.Ctx) error {
	id, ok := pathUUID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusNotFound, msgResourceMissing, nil, nil)
	}

	if err := h.uc.DeleteResource(c.Context(), id); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Resource deleted successfully", nil)
}
