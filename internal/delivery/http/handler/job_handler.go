package handler

import (
	"errors"

	"talent-match/internal/delivery/http/dto"
	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/domain/job"
	"talent-match/internal/domain/skill"
	"talent-match/internal/pkg/response"
	"talent-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type JobHandler struct {
	uc usecase.JobUsecase
}

type createJobRequest struct {
	Title        string `json:"title"`
	Company      string `json:"company"`
	Location     string `json:"location"`
	Description  string `json:"description"`
	Overview     string `json:"overview"`
	Requirements string `json:"requirements"`
}

type attachSkillsRequest struct {
	Skills []skillLabelRequest `json:"skills"`
}

type skillLabelRequest struct {
	Label    string `json:"label"`
	Priority string `json:"priority"`
}

func NewJobHandler(uc usecase.JobUsecase) *JobHandler {
	return &JobHandler{uc: uc}
}

func (h *JobHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/jobs")
	grp.Post("/", h.Create)
	grp.Get("/", h.List)
	grp.Get("/:job_id", h.Get)
	grp.Post("/:job_id/skills", h.AttachSkills)
}

func (h *JobHandler) Create(c fiber.Ctx) error {
	var req createJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	created, err := h.uc.CreateJob(c.Context(), usecase.CreateJobInput{
		Title:        req.Title,
		Company:      req.Company,
		Location:     req.Location,
		Description:  req.Description,
		Overview:     req.Overview,
		Requirements: req.Requirements,
	})
	if err != nil {
		return mapJobUsecaseError(err)
	}

	return response.Success(c, fiber.StatusCreated, response.MessageOK, toJobResponse(created, nil))
}

func (h *JobHandler) Get(c fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("job_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	j, instances, err := h.uc.GetJob(c.Context(), jobID)
	if err != nil {
		return mapJobUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, toJobResponse(j, instances))
}

func (h *JobHandler) List(c fiber.Ctx) error {
	limit := fiber.Query(c, "limit", 20)
	offset := fiber.Query(c, "offset", 0)

	jobs, err := h.uc.ListJobs(c.Context(), limit, offset)
	if err != nil {
		return mapJobUsecaseError(err)
	}

	res := dto.JobListResponse{
		Jobs:  make([]dto.JobResponse, 0, len(jobs)),
		Total: len(jobs),
	}
	for _, j := range jobs {
		res.Jobs = append(res.Jobs, toJobResponse(j, nil))
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *JobHandler) AttachSkills(c fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("job_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var req attachSkillsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	instances, err := h.uc.AttachSkills(c.Context(), jobID, toSkillLabelInputs(req.Skills))
	if err != nil {
		return mapJobUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, toInstanceResponses(instances))
}

func toSkillLabelInputs(labels []skillLabelRequest) []usecase.SkillLabelInput {
	out := make([]usecase.SkillLabelInput, 0, len(labels))
	for _, l := range labels {
		out = append(out, usecase.SkillLabelInput{Label: l.Label, Priority: l.Priority})
	}
	return out
}

func toJobResponse(j job.Job, instances []skill.Instance) dto.JobResponse {
	return dto.JobResponse{
		ID:           j.ID,
		Title:        j.Title,
		Company:      j.Company,
		Location:     j.Location,
		Description:  j.Description,
		Overview:     j.Overview,
		Requirements: j.Requirements,
		Skills:       toInstanceResponses(instances),
		CreatedAt:    j.CreatedAt,
	}
}

func toInstanceResponses(instances []skill.Instance) []dto.SkillInstanceResponse {
	if instances == nil {
		return nil
	}
	out := make([]dto.SkillInstanceResponse, 0, len(instances))
	for _, inst := range instances {
		out = append(out, dto.SkillInstanceResponse{
			SkillID:    inst.SkillID,
			SkillName:  inst.SkillName,
			Category:   string(inst.Category),
			RawLabel:   inst.RawLabel,
			Priority:   string(inst.Priority),
			Confidence: inst.Confidence,
		})
	}
	return out
}

func mapJobUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrJobNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
