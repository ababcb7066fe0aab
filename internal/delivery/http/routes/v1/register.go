package v1

import (
	"github.com/nihalsingh571/internrecom/internal/config"
	"github.com/nihalsingh571/internrecom/internal/database"
	"github.com/nihalsingh571/internrecom/internal/delivery/http/handler"
	"github.com/nihalsingh571/internrecom/internal/domain/scoring"
	"github.com/nihalsingh571/internrecom/internal/repository"
	"github.com/nihalsingh571/internrecom/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

func Register(r fiber.Router, cfg config.Config, db database.DB, cache usecase.Cache) {
	if r == nil {
		return
	}

	attemptRepo := repository.NewPostgresAttemptRepository(db)
	questionRepo := repository.NewPostgresQuestionRepository(db)
	candidateRepo := repository.NewPostgresCandidateRepository(db)
	skillRepo := repository.NewPostgresSkillRepository(db)
	listingRepo := repository.NewPostgresListingRepository(db)

	engine := scoring.NewRecommendationEngine(scoring.NewTrustCalculator(cfg.Scoring.RecruiterConfidence))

	assessmentUC := usecase.NewAssessmentUsecase(attemptRepo, questionRepo, candidateRepo, skillRepo, cache)
	recommendationUC := usecase.NewRecommendationUsecase(candidateRepo, listingRepo, engine, cache)
	listingUC := usecase.NewListingUsecase(listingRepo)

	handler.NewAssessmentHandler(assessmentUC).RegisterRoutes(r)
	handler.NewRecommendationHandler(recommendationUC).RegisterRoutes(r)
	handler.NewListingHandler(listingUC).RegisterRoutes(r)
}
