package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shagatomte19/bus-booking-system-rag/internal/http/middleware"
	"github.com/shagatomte19/bus-booking-system-rag/internal/utils"
)

type askRequest struct {
	Question string `json:"question"`
}

// POST /api/providers/ask
func (a *API) AskProviders(c *gin.Context) {
	var req askRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	question := strings.TrimSpace(req.Question)
	if len(question) < 3 {
		RespondError(c, http.StatusBadRequest, "question must be at least 3 characters", nil)
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "router", "ask", "question received")
	answer := a.Router.AnswerQuestion(c.Request.Context(), question)
	c.JSON(http.StatusOK, answer)
}

// POST /api/providers/reindex
func (a *API) ReindexProviders(c *gin.Context) {
	count, err := a.RAG.Reindex(c.Request.Context(), a.Env.ProviderDocsDir)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "reindex failed", err)
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "rag", "reindex", "collection rebuilt")
	c.JSON(http.StatusOK, gin.H{
		"message": "Provider documents reindexed",
		"indexed": count,
	})
}
