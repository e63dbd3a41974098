package handler

import (
	"talent-match/internal/delivery/http/dto"
	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/pkg/response"
	"talent-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type SkillHandler struct {
	uc usecase.SkillUsecase
}

func NewSkillHandler(uc usecase.SkillUsecase) *SkillHandler {
	return &SkillHandler{uc: uc}
}

func (h *SkillHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/skills", h.List)
}

func (h *SkillHandler) List(c fiber.Ctx) error {
	skills, err := h.uc.ListSkills(c.Context())
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	res := make([]dto.SkillResponse, 0, len(skills))
	for _, s := range skills {
		res = append(res, dto.SkillResponse{
			ID:        s.ID,
			Name:      s.Name,
			Category:  string(s.Category),
			CreatedAt: s.CreatedAt,
		})
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}
