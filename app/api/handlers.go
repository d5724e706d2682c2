package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moht-agrawal-rubrik/tlean/app/candidate"
	"github.com/moht-agrawal-rubrik/tlean/app/database"
	"github.com/moht-agrawal-rubrik/tlean/app/tasks"
)

func NewHandler(repo database.CandidateRepositoryInterface, scheduler tasks.TaskSchedulerInterface,
	resultLimit int, minScore float64) *Handler {
	return &Handler{
		repo:        repo,
		scheduler:   scheduler,
		resultLimit: resultLimit,
		minScore:    minScore,
	}
}

// GetCandidates returns the ranked merged list across all sources.
// Query parameters limit, min_score and source narrow the result.
func (h *Handler) GetCandidates(c *gin.Context) {
	opts := candidate.RankOptions{
		Limit:    h.resultLimit,
		MinScore: h.minScore,
	}

	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit parameter"})
			return
		}
		opts.Limit = limit
	}

	if v := c.Query("min_score"); v != "" {
		minScore, err := strconv.ParseFloat(v, 64)
		if err != nil || minScore < 0 || minScore > 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_score parameter"})
			return
		}
		opts.MinScore = minScore
	}

	var stored []candidate.Candidate
	var err error
	if v := c.Query("source"); v != "" {
		source, ok := parseSource(v)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid source parameter"})
			return
		}
		stored, err = h.repo.GetBySource(source)
	} else {
		stored, err = h.repo.GetAll()
	}
	if err != nil {
		slog.Error("Database error", "operation", "get_candidates", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load candidates"})
		return
	}

	ranked := candidate.Rank(opts, stored)

	c.JSON(http.StatusOK, gin.H{
		"count":      len(ranked),
		"candidates": ranked,
	})
}

// GetCandidatesBySource returns the ranked candidates for one source.
func (h *Handler) GetCandidatesBySource(c *gin.Context) {
	source, ok := parseSource(c.Param("source"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid source"})
		return
	}

	stored, err := h.repo.GetBySource(source)
	if err != nil {
		slog.Error("Database error", "operation", "get_candidates_by_source", "source", source, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load candidates"})
		return
	}

	ranked := candidate.Rank(candidate.RankOptions{Limit: h.resultLimit, MinScore: h.minScore}, stored)

	c.JSON(http.StatusOK, gin.H{
		"source":     source,
		"count":      len(ranked),
		"candidates": ranked,
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if count, err := h.repo.GetCandidateCount(); err == nil {
		health["candidates"] = count
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.repo.GetSourceStats()
	if err != nil {
		slog.Error("Database error", "operation", "get_stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}

	sources := make([]map[string]interface{}, 0, len(stats))
	for _, s := range stats {
		entry := map[string]interface{}{
			"source":          s.Source,
			"candidate_count": s.CandidateCount,
		}
		if s.LastRefreshed != nil {
			entry["last_refreshed_at"] = s.LastRefreshed.Format(time.RFC3339)
		}
		sources = append(sources, entry)
	}

	c.JSON(http.StatusOK, gin.H{"sources": sources})
}

// APIRefresh queues a refresh for every configured source.
func (h *Handler) APIRefresh(c *gin.Context) {
	queued := h.scheduler.EnqueueRefreshTasks()

	c.JSON(http.StatusAccepted, gin.H{
		"message": "refresh queued",
		"sources": queued,
	})
}

func parseSource(v string) (candidate.Source, bool) {
	switch candidate.Source(v) {
	case candidate.SourceGitHub, candidate.SourceJira, candidate.SourceSlack:
		return candidate.Source(v), true
	}
	return "", false
}
