package api

import (
	"errors"
	"net/http"
	"strconv"

	"review-eval/internal/evaluation"
	"review-eval/internal/middleware"
	"review-eval/internal/models"
	"review-eval/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (s *Server) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.tmpl", gin.H{
		"Title":  "Review Setup",
		"Raters": s.catalog.Raters(),
	})
}

func (s *Server) CreateSession(c *gin.Context) {
	var req models.CreateSessionRequest
	if err := c.ShouldBind(&req); err != nil {
		s.renderIndexError(c, http.StatusBadRequest, "Select a user to start.")
		return
	}

	rater, ok := s.catalog.Rater(req.User)
	if !ok {
		s.renderIndexError(c, http.StatusBadRequest, "Unknown user.")
		return
	}

	token, claims, err := s.jwtManager.GenerateToken(rater.ID)
	if err != nil {
		s.logger.Error("failed to start session", zap.String("user", rater.ID), zap.Error(err))
		s.renderIndexError(c, http.StatusInternalServerError, "Failed to start session.")
		return
	}

	s.logger.Info("session started", zap.String("user", rater.ID), zap.String("session_id", claims.SessionID))
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(s.jwtManager.TTL().Seconds()), "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/papers")
}

func (s *Server) renderIndexError(c *gin.Context, status int, message string) {
	c.HTML(status, "index.tmpl", gin.H{
		"Title":  "Review Setup",
		"Raters": s.catalog.Raters(),
		"Error":  message,
	})
}

func (s *Server) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) PapersPage(c *gin.Context) {
	userID, _ := s.sessionUser(c)
	rater, _ := s.catalog.Rater(userID)

	c.HTML(http.StatusOK, "papers.tmpl", gin.H{
		"Title":  "Assignments",
		"Rater":  rater,
		"Papers": s.catalog.PapersFor(userID),
	})
}

func (s *Server) PaperPage(c *gin.Context) {
	s.renderPaper(c, http.StatusOK, map[string]string{}, nil, "", "")
}

// SubmitPaperForm handles the HTML form post. On a validation failure the
// page is re-rendered with the chosen values kept and unrated points marked.
func (s *Server) SubmitPaperForm(c *gin.Context) {
	userID, sessionID := s.sessionUser(c)
	paperID := c.Param("id")
	ratings := c.PostFormMap("ratings")

	resp, err := s.evaluations.Submit(c.Request.Context(), evaluation.Submission{
		UserID:    userID,
		SessionID: sessionID,
		PaperID:   paperID,
		Ratings:   ratings,
	})
	if err != nil {
		var verr *evaluation.ValidationError
		if errors.As(err, &verr) {
			flagged := make(map[string]bool, len(verr.Missing)+len(verr.Invalid))
			for _, k := range verr.Missing {
				flagged[k] = true
			}
			for _, k := range verr.Invalid {
				flagged[k] = true
			}
			s.renderPaper(c, http.StatusUnprocessableEntity, ratings, flagged, verr.Message(), "")
			return
		}
		if statusFor(err) == http.StatusInternalServerError {
			s.logger.Error("failed to save evaluation", zap.String("paper_id", paperID), zap.Error(err))
			s.renderPaper(c, http.StatusInternalServerError, ratings, nil, "Failed to save evaluation. Please try again.", "")
			return
		}
		s.renderPaper(c, statusFor(err), ratings, nil, "", "")
		return
	}

	s.renderPaper(c, http.StatusOK, map[string]string{}, nil, "",
		"Saved successfully! ("+strconv.Itoa(resp.Rows)+" ratings recorded)")
}

func (s *Server) renderPaper(c *gin.Context, status int, ratings map[string]string, flagged map[string]bool, errMsg, success string) {
	data, ok := s.paperData(c)
	if !ok {
		return
	}
	data["Ratings"] = ratings
	data["Flagged"] = flagged
	data["Error"] = errMsg
	data["Success"] = success
	c.HTML(status, "paper.tmpl", data)
}

// paperData renders the load error page itself when the paper cannot be
// shown and reports false.
func (s *Server) paperData(c *gin.Context) (gin.H, bool) {
	userID, sessionID := s.sessionUser(c)
	paperID := c.Param("id")
	rater, _ := s.catalog.Rater(userID)

	form, err := s.evaluations.Form(c.Request.Context(), userID, sessionID, paperID)
	if err != nil {
		c.HTML(statusFor(err), "error.tmpl", gin.H{
			"Title":  "Error",
			"Rater":  rater,
			"Papers": s.catalog.PapersFor(userID),
			"Error":  loadErrorMessage(paperID, err),
		})
		return nil, false
	}

	return gin.H{
		"Title":  "Evaluating: " + form.Paper.ID + " (" + form.Paper.Source + ")",
		"Rater":  rater,
		"Papers": s.catalog.PapersFor(userID),
		"Form":   form,
	}, true
}

// ServePDF streams the paper inline for the viewer, or as a download with
// ?download=1.
func (s *Server) ServePDF(c *gin.Context) {
	userID, _ := s.sessionUser(c)
	paperID := c.Param("id")

	if !s.catalog.IsAssigned(userID, paperID) {
		c.JSON(http.StatusForbidden, gin.H{"error": loadErrorMessage(paperID, evaluation.ErrNotAssigned)})
		return
	}
	paper, err := s.catalog.Paper(paperID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": loadErrorMessage(paperID, err)})
		return
	}
	if !storage.Exists(paper.PDFPath) {
		c.JSON(http.StatusNotFound, gin.H{"error": "PDF file not found for paper '" + paperID + "'"})
		return
	}

	if c.Query("download") == "1" {
		c.FileAttachment(paper.PDFPath, paper.ID+".pdf")
		return
	}
	c.Header("Content-Type", "application/pdf")
	c.File(paper.PDFPath)
}
