// file: internal/server/match_handlers.go
// version: 1.0.0
// guid: 2f9a6c14-b8e5-4d37-a0c3-5e7b1d9f4a28

package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// namesStatusRequest is the body of POST /api/results-by-names.
type namesStatusRequest struct {
	Names          []string `json:"names"`
	ContestIDAtual *int64   `json:"contest_id_atual"`
}

func (s *Server) resultsByName(c *gin.Context) {
	results, err := s.matchService.ResultsByName(c.Query("name"))
	if err != nil {
		RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (s *Server) resultsByCriteria(c *gin.Context) {
	results, err := s.matchService.ResultsByNameAndCategory(c.Query("name"), c.Query("category"))
	if err != nil {
		RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (s *Server) resultsSuggestions(c *gin.Context) {
	name := c.Query("name")
	suggestions, err := s.matchService.Suggest(name, ParseQueryInt(c, "limit", defaultSuggestionLimit))
	if err != nil {
		RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuggestionsResponse{Query: name, Suggestions: suggestions})
}

func (s *Server) resultsByNamesBatch(c *gin.Context) {
	var names []string
	if err := c.ShouldBindJSON(&names); HandleBindError(c, err) {
		return
	}
	status, err := s.matchService.BatchStatus(names)
	if err != nil {
		RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (s *Server) resultsByNames(c *gin.Context) {
	var req namesStatusRequest
	if err := c.ShouldBindJSON(&req); HandleBindError(c, err) {
		return
	}
	var current int64
	if req.ContestIDAtual != nil {
		current = *req.ContestIDAtual
	}
	status, err := s.matchService.StatusOutsideContest(req.Names, current)
	if err != nil {
		RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
