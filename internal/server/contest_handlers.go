// file: internal/server/contest_handlers.go
// version: 1.0.0
// guid: 5c0e8a3f-2b7d-4c19-86f4-a9d1e7b3c062

package server

import (
	"net/http"
	"strconv"

	"github.com/classificacaofinal/classificacao/internal/models"
	servermiddleware "github.com/classificacaofinal/classificacao/internal/server/middleware"
	"github.com/gin-gonic/gin"
)

func actorID(c *gin.Context) string {
	if user, ok := servermiddleware.CurrentUser(c); ok {
		return user.ID
	}
	return ""
}

func (s *Server) createContest(c *gin.Context) {
	var in ContestInput
	if err := c.ShouldBindJSON(&in); HandleBindError(c, err) {
		return
	}
	contest, err := s.contestService.CreateContest(in)
	if err != nil {
		RespondWithServiceError(c, err)
		return
	}
	LogAuditEvent("contest", actorID(c), strconv.FormatInt(contest.ID, 10), "create", contest.Name)
	c.JSON(http.StatusCreated, contest)
}

func (s *Server) listContests(c *gin.Context) {
	contests, err := s.contestService.ListContests()
	if err != nil {
		RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, contests)
}

func (s *Server) getContest(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}
	contest, err := s.contestService.GetContest(id)
	if err != nil {
		RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, contest)
}

func (s *Server) updateContest(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}
	var patch models.ContestPatch
	if err := c.ShouldBindJSON(&patch); HandleBindError(c, err) {
		return
	}
	contest, err := s.contestService.UpdateContest(id, patch)
	if err != nil {
		RespondWithServiceError(c, err)
		return
	}
	LogAuditEvent("contest", actorID(c), strconv.FormatInt(id, 10), "update", contest.Name)
	c.JSON(http.StatusOK, contest)
}

func (s *Server) deleteContest(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := s.contestService.DeleteContest(id); err != nil {
		RespondWithServiceError(c, err)
		return
	}
	LogAuditEvent("contest", actorID(c), strconv.FormatInt(id, 10), "delete", "contest and results removed")
	RespondWithNoContent(c)
}

func (s *Server) compareContests(c *gin.Context) {
	id1, ok := ParseIDParam(c, "id1")
	if !ok {
		return
	}
	id2, ok := ParseIDParam(c, "id2")
	if !ok {
		return
	}
	entries, err := s.matchService.Compare(id1, id2)
	if err != nil {
		RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewCompareResponse(entries))
}
