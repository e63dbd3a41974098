package handler

import (
	"errors"

	"talent-match/internal/delivery/http/dto"
	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/domain/match"
	"talent-match/internal/domain/matching"
	"talent-match/internal/pkg/response"
	"talent-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type MatchHandler struct {
	step1    usecase.MatchStep1Usecase
	step2    usecase.MatchStep2Usecase
	sessions usecase.MatchSessionUsecase
}

type step2Request struct {
	ProfileIDs []uuid.UUID `json:"profile_ids"`
	SessionID  *uuid.UUID  `json:"session_id"`
}

func NewMatchHandler(step1 usecase.MatchStep1Usecase, step2 usecase.MatchStep2Usecase, sessions usecase.MatchSessionUsecase) *MatchHandler {
	return &MatchHandler{step1: step1, step2: step2, sessions: sessions}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/jobs")
	grp.Post("/:job_id/match/step1", h.Step1)
	grp.Post("/:job_id/match/step2", h.Step2)
	grp.Get("/:job_id/match-sessions", h.ListSessions)
}

func (h *MatchHandler) Step1(c fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("job_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	out, err := h.step1.FindMatchingCandidates(c.Context(), jobID)
	if err != nil {
		return mapMatchUsecaseError(err)
	}

	res := dto.Step1Response{
		SessionID:    out.SessionID,
		Matches:      make([]dto.CandidateMatchResponse, 0, len(out.Matches)),
		TotalMatches: len(out.Matches),
	}
	for _, m := range out.Matches {
		res.Matches = append(res.Matches, toCandidateMatchResponse(m))
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *MatchHandler) Step2(c fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("job_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var req step2Request
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	out, err := h.step2.AnalyzeCandidates(c.Context(), jobID, req.ProfileIDs, req.SessionID)
	if err != nil {
		return mapMatchUsecaseError(err)
	}

	res := dto.Step2Response{
		SessionID:     out.SessionID,
		Results:       make([]dto.AnalysisResultResponse, 0, len(out.Results)),
		TotalAnalyzed: len(out.Results),
	}
	for _, a := range out.Results {
		res.Results = append(res.Results, toAnalysisResponse(a))
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *MatchHandler) ListSessions(c fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("job_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	sessions, err := h.sessions.ListSessions(c.Context(), jobID)
	if err != nil {
		return mapMatchUsecaseError(err)
	}

	res := dto.MatchSessionListResponse{
		Sessions: make([]dto.MatchSessionResponse, 0, len(sessions)),
		Total:    len(sessions),
	}
	for _, s := range sessions {
		res.Sessions = append(res.Sessions, toSessionResponse(s))
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func toCandidateMatchResponse(m matching.CandidateMatch) dto.CandidateMatchResponse {
	return dto.CandidateMatchResponse{
		ProfileID:         m.ProfileID,
		Score:             m.Score,
		MandatoryMissing:  m.MandatoryMissing,
		MatchedMustHave:   toSkillRefs(m.MatchedMustHave),
		MissingMustHave:   toSkillRefs(m.MissingMustHave),
		MatchedNiceToHave: toSkillRefs(m.MatchedNiceToHave),
		MissingNiceToHave: toSkillRefs(m.MissingNiceToHave),
	}
}

func toSkillRefs(refs []matching.SkillRef) []dto.SkillRefResponse {
	out := make([]dto.SkillRefResponse, 0, len(refs))
	for _, r := range refs {
		out = append(out, dto.SkillRefResponse{SkillID: r.SkillID, SkillName: r.SkillName})
	}
	return out
}

func toStoredMatchResponse(m match.StoredMatch) dto.CandidateMatchResponse {
	return dto.CandidateMatchResponse{
		ProfileID:         m.ProfileID,
		Score:             m.Score,
		MandatoryMissing:  m.MandatoryMissing,
		MatchedMustHave:   toStoredSkillRefs(m.MatchedMustHave),
		MissingMustHave:   toStoredSkillRefs(m.MissingMustHave),
		MatchedNiceToHave: toStoredSkillRefs(m.MatchedNiceToHave),
		MissingNiceToHave: toStoredSkillRefs(m.MissingNiceToHave),
	}
}

func toStoredSkillRefs(refs []match.StoredSkill) []dto.SkillRefResponse {
	out := make([]dto.SkillRefResponse, 0, len(refs))
	for _, r := range refs {
		out = append(out, dto.SkillRefResponse{SkillID: r.SkillID, SkillName: r.SkillName})
	}
	return out
}

func toAnalysisResponse(a match.StoredAnalysis) dto.AnalysisResultResponse {
	out := dto.AnalysisResultResponse{
		ProfileID:   a.ProfileID,
		Score:       a.Score,
		Explanation: a.Explanation,
		Evidence:    make([]dto.EvidenceResponse, 0, len(a.Evidence)),
		Strengths:   a.Strengths,
		Concerns:    a.Concerns,
		Confidence:  a.Confidence,
	}
	for _, e := range a.Evidence {
		out.Evidence = append(out.Evidence, dto.EvidenceResponse{
			Category:    e.Category,
			JobQuote:    e.JobQuote,
			ResumeQuote: e.ResumeQuote,
			Assessment:  e.Assessment,
		})
	}
	return out
}

func toSessionResponse(s match.Session) dto.MatchSessionResponse {
	out := dto.MatchSessionResponse{
		ID:              s.ID,
		JobID:           s.JobID,
		Status:          string(s.Status),
		Step2Selections: s.Step2Selections,
		Notes:           s.Notes,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
	for _, m := range s.Step1Results {
		out.Step1Results = append(out.Step1Results, toStoredMatchResponse(m))
	}
	for _, a := range s.Step2Results {
		out.Step2Results = append(out.Step2Results, toAnalysisResponse(a))
	}
	return out
}

func mapMatchUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrJobNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	case errors.Is(err, usecase.ErrSessionNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Match session not found", nil, err)
	case errors.Is(err, usecase.ErrSessionForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Match session belongs to a different job", nil, err)
	case errors.Is(err, usecase.ErrEmptySelection):
		return middleware.NewAppError(fiber.StatusBadRequest, "No candidates to analyze", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
