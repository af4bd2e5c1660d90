package handler

import (
	"errors"
	"strings"

	"worklinkph/internal/delivery/http/dto"
	"worklinkph/internal/delivery/http/middleware"
	"worklinkph/internal/domain/job"
	"worklinkph/internal/pkg/response"
	"worklinkph/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type JobsHandler struct {
	uc usecase.JobUsecase
}

type createJobRequest struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Tags        []string `json:"tags"`
}

type updateJobRequest struct {
	Title       *string   `json:"title"`
	Company     *string   `json:"company"`
	Location    *string   `json:"location"`
	Description *string   `json:"description"`
	Type        *string   `json:"type"`
	Tags        *[]string `json:"tags"`
}

func NewJobsHandler(uc usecase.JobUsecase) *JobsHandler {
	return &JobsHandler{uc: uc}
}

func (h *JobsHandler) RegisterRoutes(r fiber.Router, protected fiber.Handler) {
	if r == nil {
		return
	}

	r.Get("/", h.HandleListJobs)
	r.Get("/:id", h.HandleGetJob)
	r.Post("/", protected, h.HandleCreateJob)
	r.Put("/:id", protected, h.HandleUpdateJob)
	r.Delete("/:id", protected, h.HandleDeleteJob)
}

func (h *JobsHandler) HandleListJobs(c fiber.Ctx) error {
	limit, err := parseQueryIntStrict(c, "limit", job.DefaultLimit)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	offset, err := parseQueryIntStrict(c, "offset", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	items, err := h.uc.ListJobs(c.Context(), job.Filter{
		Search:   strings.TrimSpace(c.Query("search")),
		Type:     strings.TrimSpace(c.Query("type")),
		Location: strings.TrimSpace(c.Query("location")),
		Tags:     queryValues(c, "tags"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return mapUsecaseError(err)
	}

	out := dto.NewJobResponses(items)
	return response.List(c, dto.JobsEnvelope{Jobs: out}, len(out))
}

func (h *JobsHandler) HandleGetJob(c fiber.Ctx) error {
	id, ok := pathUUID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusNotFound, msgJobNotFound, nil, nil)
	}

	j, err := h.uc.GetJob(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "", dto.JobEnvelope{Job: dto.NewJobResponse(j)})
}

func (h *JobsHandler) HandleCreateJob(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req createJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return badPayload(err)
	}

	j, err := h.uc.CreateJob(c.Context(), userID, usecase.CreateJobInput{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		Description: req.Description,
		Type:        req.Type,
		Tags:        cleanTags(req.Tags),
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Job created successfully", dto.JobEnvelope{Job: dto.NewJobResponse(j)})
}

func (h *JobsHandler) HandleUpdateJob(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, ok := pathUUID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusNotFound, msgJobNotFound, nil, nil)
	}

	var req updateJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return badPayload(err)
	}
	p := job.Patch{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		Description: req.Description,
		Type:        req.Type,
	}
	if req.Tags != nil {
		tags := cleanTags(*req.Tags)
		p.Tags = &tags
	}

	j, err := h.uc.UpdateJob(c.Context(), userID, id, p)
	if err != nil {
		if errors.Is(err, usecase.ErrForbidden) {
			return middleware.NewAppError(fiber.StatusForbidden, "Not authorized to update this job", nil, err)
		}
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Job updated successfully", dto.JobEnvelope{Job: dto.NewJobResponse(j)})
}

func (h *JobsHandler) HandleDeleteJob(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, ok := pathUUID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusNotFound, msgJobNotFound, nil, nil)
	}

	if err := h.uc.DeleteJob(c.Context(), userID, id); err != nil {
		if errors.Is(err, usecase.ErrForbidden) {
			return middleware.NewAppError(fiber.StatusForbidden, "Not authorized to delete this job", nil, err)
		}
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Job deleted successfully", nil)
}

// queryValues collects a repeatable query parameter (?tags=a&tags=b); the
// "tags[]" form some clients send is accepted too.
func queryValues(c fiber.Ctx, key string) []string {
	args := c.Request().URI().QueryArgs()
	var out []string
	for _, k := range []string{key, key + "[]"} {
		for _, v := range args.PeekMulti(k) {
			if s := strings.TrimSpace(string(v)); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func pathUUID(c fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
