package handler

import (
	"errors"

	"talent-match/internal/delivery/http/dto"
	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/domain/profile"
	"talent-match/internal/domain/skill"
	"talent-match/internal/pkg/response"
	"talent-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ProfileHandler struct {
	uc usecase.ProfileUsecase
}

type createProfileRequest struct {
	Name       string `json:"name"`
	Headline   string `json:"headline"`
	Summary    string `json:"summary"`
	Experience string `json:"experience"`
	ResumeText string `json:"resume_text"`
}

func NewProfileHandler(uc usecase.ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

func (h *ProfileHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/profiles")
	grp.Post("/", h.Create)
	grp.Get("/:profile_id", h.Get)
	grp.Post("/:profile_id/skills", h.AttachSkills)
}

func (h *ProfileHandler) Create(c fiber.Ctx) error {
	var req createProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	created, err := h.uc.CreateProfile(c.Context(), usecase.CreateProfileInput{
		Name:       req.Name,
		Headline:   req.Headline,
		Summary:    req.Summary,
		Experience: req.Experience,
		ResumeText: req.ResumeText,
	})
	if err != nil {
		return mapProfileUsecaseError(err)
	}

	return response.Success(c, fiber.StatusCreated, response.MessageOK, toProfileResponse(created, nil))
}

func (h *ProfileHandler) Get(c fiber.Ctx) error {
	profileID, err := uuid.Parse(c.Params("profile_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	p, instances, err := h.uc.GetProfile(c.Context(), profileID)
	if err != nil {
		return mapProfileUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, toProfileResponse(p, instances))
}

func (h *ProfileHandler) AttachSkills(c fiber.Ctx) error {
	profileID, err := uuid.Parse(c.Params("profile_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var req attachSkillsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	instances, err := h.uc.AttachSkills(c.Context(), profileID, toSkillLabelInputs(req.Skills))
	if err != nil {
		return mapProfileUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, toInstanceResponses(instances))
}

func toProfileResponse(p profile.Profile, instances []skill.Instance) dto.ProfileResponse {
	return dto.ProfileResponse{
		ID:         p.ID,
		Name:       p.Name,
		Headline:   p.Headline,
		Summary:    p.Summary,
		Experience: p.Experience,
		Skills:     toInstanceResponses(instances),
		CreatedAt:  p.CreatedAt,
	}
}

func mapProfileUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrProfileNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Profile not found", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
