package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nontonhub/nontonhub/internal/history"
)

func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// listCategory serves GET /api/movies/:category. Degrades to an empty
// successful page when every provider is down.
func (s *Server) listCategory(c *gin.Context) {
	category := c.Param("category")
	if category == "" {
		category = "trending"
	}
	page := s.aggregator.Category(c.Request.Context(), category, pageParam(c))
	c.JSON(http.StatusOK, page)
}

// search serves GET /api/search. The query parameter is required; no upstream
// call is attempted without it.
func (s *Server) search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		errorResponse(c, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}
	page := s.aggregator.Search(c.Request.Context(), query, pageParam(c))
	c.JSON(http.StatusOK, page)
}

// detail serves GET /api/detail. The detail path's provider tag routes the
// lookup; a provider failure here is a genuine error, not an empty page.
func (s *Server) detail(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		errorResponse(c, http.StatusBadRequest, "query parameter 'path' is required")
		return
	}
	detail, err := s.aggregator.Detail(c.Request.Context(), path)
	if err != nil {
		errorResponse(c, http.StatusBadGateway, "failed to fetch movie details")
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (s *Server) listHistory(c *gin.Context) {
	entries, err := s.history.List(c.Request.Context())
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to load history")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "items": entries})
}

func (s *Server) addHistory(c *gin.Context) {
	var entry history.Entry
	if err := c.ShouldBindJSON(&entry); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid history entry")
		return
	}
	if entry.WatchedAt == 0 {
		entry.WatchedAt = time.Now().Unix()
	}
	saved, err := s.history.Add(c.Request.Context(), entry)
	if err != nil {
		if errors.Is(err, history.ErrIncompleteEntry) {
			errorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		errorResponse(c, http.StatusInternalServerError, "failed to save history")
		return
	}
	c.JSON(http.StatusOK, saved)
}
