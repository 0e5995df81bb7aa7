package api

import (
	"errors"
	"net/http"

	"review-eval/internal/auth"
	"review-eval/internal/catalog"
	"review-eval/internal/config"
	"review-eval/internal/errdefs"
	"review-eval/internal/evaluation"
	"review-eval/internal/middleware"
	"review-eval/internal/models"
	"review-eval/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	catalog     *catalog.Catalog
	evaluations *evaluation.Service
	jwtManager  *auth.JWTManager
	config      *config.Config
	logger      *zap.Logger
}

func NewServer(cat *catalog.Catalog, svc *evaluation.Service, cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{
		catalog:     cat,
		evaluations: svc,
		jwtManager:  auth.NewJWTManager(cfg),
		config:      cfg,
		logger:      logger,
	}
}

// statusFor maps domain errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errdefs.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errdefs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errdefs.ErrPermissionDenied):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// loadErrorMessage is the user-facing text for a paper that cannot be shown.
func loadErrorMessage(paperID string, err error) string {
	switch {
	case errors.Is(err, evaluation.ErrNotAssigned):
		return "Paper '" + paperID + "' is not assigned to you."
	case errors.Is(err, evaluation.ErrNoReviews):
		return "No reviews found for paper '" + paperID + "'."
	case errors.Is(err, catalog.ErrPaperNotFound):
		return "Paper ID '" + paperID + "' not found."
	default:
		return "Failed to load paper '" + paperID + "'."
	}
}

func (s *Server) sessionUser(c *gin.Context) (userID, sessionID string) {
	return c.GetString(middleware.ContextUserID), c.GetString(middleware.ContextSessionID)
}

// Rater Handlers
func (s *Server) GetRaters(c *gin.Context) {
	c.JSON(http.StatusOK, s.catalog.Raters())
}

func (s *Server) GetRaterPapers(c *gin.Context) {
	rater, ok := s.catalog.Rater(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rater not found"})
		return
	}

	papers := s.catalog.PapersFor(rater.ID)
	if papers == nil {
		papers = []string{}
	}
	c.JSON(http.StatusOK, models.RaterPapersResponse{Rater: rater, Papers: papers})
}

// Evaluation Handlers
func (s *Server) GetPaperForm(c *gin.Context) {
	userID, sessionID := s.sessionUser(c)
	paperID := c.Param("id")

	form, err := s.evaluations.Form(c.Request.Context(), userID, sessionID, paperID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": loadErrorMessage(paperID, err)})
		return
	}

	c.JSON(http.StatusOK, form)
}

func (s *Server) SubmitEvaluation(c *gin.Context) {
	var req models.SubmitEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, sessionID := s.sessionUser(c)
	paperID := c.Param("id")

	resp, err := s.evaluations.Submit(c.Request.Context(), evaluation.Submission{
		UserID:    userID,
		SessionID: sessionID,
		PaperID:   paperID,
		Ratings:   req.Ratings,
	})
	if err != nil {
		var verr *evaluation.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   verr.Message(),
				"missing": verr.Missing,
				"invalid": verr.Invalid,
			})
			return
		}
		if status := statusFor(err); status != http.StatusInternalServerError {
			c.JSON(status, gin.H{"error": loadErrorMessage(paperID, err)})
			return
		}
		s.logger.Error("failed to save evaluation", zap.String("paper_id", paperID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save evaluation"})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Admin Handlers
func (s *Server) ExportResults(c *gin.Context) {
	path := s.config.Data.ResultsPath
	if !storage.Exists(path) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No results recorded yet"})
		return
	}
	c.FileAttachment(path, "evaluation_results.csv")
}
