// file: internal/server/result_handlers.go
// version: 1.0.0
// guid: 8d4f1b62-7e3a-4a05-b9c8-0f2e6d5a3c71

package server

import (
	"fmt"
	"net/http"
	"strconv"

	servermiddleware "github.com/classificacaofinal/classificacao/internal/server/middleware"
	"github.com/gin-gonic/gin"
)

func (s *Server) createResults(c *gin.Context) {
	var req BulkResultsRequest
	if err := c.ShouldBindJSON(&req); HandleBindError(c, err) {
		return
	}
	ol := NewOperationLogger("createResults", c.Request.Method, c.Request.URL.Path, servermiddleware.GetRequestID(c))
	ol.SetResourceID(strconv.FormatInt(req.ContestID, 10))
	ol.AddDetail("category", req.Category)
	ol.AddDetail("count", len(req.Names))

	results, err := s.resultService.CreateResults(req)
	if err != nil {
		ol.LogError(http.StatusUnprocessableEntity, err)
		RespondWithServiceError(c, err)
		return
	}
	ol.LogSuccess(http.StatusCreated)
	c.JSON(http.StatusCreated, results)
}

func (s *Server) listContestResults(c *gin.Context) {
	contestID, ok := ParseIDParam(c, "contest_id")
	if !ok {
		return
	}
	results, err := s.resultService.ListByContest(contestID)
	if err != nil {
		RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (s *Server) deleteResultsByCategory(c *gin.Context) {
	contestID, ok := ParseIDParam(c, "contest_id")
	if !ok {
		return
	}
	category := c.Param("category")
	deleted, err := s.resultService.DeleteByCategory(contestID, category)
	if err != nil {
		RespondWithServiceError(c, err)
		return
	}
	LogAuditEvent("results", actorID(c), strconv.FormatInt(contestID, 10), "delete",
		fmt.Sprintf("%d results removed from %s", deleted, category))
	RespondWithNoContent(c)
}

func (s *Server) getResultExtra(c *gin.Context) {
	resultID, ok := ParseIDParam(c, "result_id")
	if !ok {
		return
	}
	extra, err := s.extraService.GetByResultID(resultID)
	if err != nil {
		RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, extra)
}

func (s *Server) upsertResultExtra(c *gin.Context) {
	var req ExtraUpsertRequest
	if err := c.ShouldBindJSON(&req); HandleBindError(c, err) {
		return
	}
	extra, err := s.extraService.Upsert(req)
	if err != nil {
		RespondWithServiceError(c, err)
		return
	}
	LogAuditEvent("result_extra", actorID(c), strconv.FormatInt(req.ContestResultID, 10), "upsert", "status updated")
	c.JSON(http.StatusOK, extra)
}

func (s *Server) listContestExtras(c *gin.Context) {
	contestID, ok := ParseIDParam(c, "contest_id")
	if !ok {
		return
	}
	extras, err := s.extraService.ListByContest(contestID)
	if err != nil {
		RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, extras)
}
