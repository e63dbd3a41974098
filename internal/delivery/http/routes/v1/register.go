package v1

import (
	"talent-match/internal/ai"
	"talent-match/internal/config"
	"talent-match/internal/database"
	"talent-match/internal/delivery/http/handler"
	"talent-match/internal/infrastructure/cache"
	"talent-match/internal/repository"
	"talent-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type Deps struct {
	Config config.Config
	DB     database.DB
	Cache  *cache.Redis
	AI     ai.CompletionClient
	Logger *zap.Logger
}

func Register(r fiber.Router, deps Deps) {
	if r == nil {
		return
	}

	skillRepo := repository.NewPostgresSkillRepository(deps.DB)
	instanceRepo := repository.NewPostgresSkillInstanceRepository(deps.DB)
	jobRepo := repository.NewPostgresJobRepository(deps.DB)
	profileRepo := repository.NewPostgresProfileRepository(deps.DB)
	sessionRepo := repository.NewPostgresMatchSessionRepository(deps.DB)

	canonicalizer := usecase.NewCanonicalizer(skillRepo, deps.AI, deps.Cache, deps.Logger)

	jobUC := usecase.NewJobs(jobRepo, instanceRepo, canonicalizer)
	profileUC := usecase.NewProfiles(profileRepo, instanceRepo, canonicalizer)
	skillUC := usecase.NewSkills(skillRepo)
	step1UC := usecase.NewMatchStep1(jobRepo, profileRepo, instanceRepo, sessionRepo, deps.Cache, deps.Logger)
	step2UC := usecase.NewMatchStep2(jobRepo, profileRepo, instanceRepo, sessionRepo, deps.AI, deps.Cache, deps.Logger, deps.Config.AI.BatchSize)
	sessionUC := usecase.NewMatchSessions(jobRepo, sessionRepo)

	handler.NewJobHandler(jobUC).RegisterRoutes(r)
	handler.NewProfileHandler(profileUC).RegisterRoutes(r)
	handler.NewSkillHandler(skillUC).RegisterRoutes(r)
	handler.NewMatchHandler(step1UC, step2UC, sessionUC).RegisterRoutes(r)
}
