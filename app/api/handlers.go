package api

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/thinkers-table/app/cfg"
	"github.com/lysyi3m/thinkers-table/app/database"
	"github.com/lysyi3m/thinkers-table/app/signup"
)

const defaultLoadsLimit = 50

// NewHandler creates the request handlers. Pass an untyped nil for loadRepo or
// scheduler to disable history or on-demand probes; a typed nil pointer
// counts as configured.
func NewHandler(homepage HomepageInterface, loadRepo database.LoadRepository,
	signupState *signup.State, scheduler ProbeSchedulerInterface) *Handler {
	return &Handler{
		homepage:    homepage,
		loadRepo:    loadRepo,
		signupState: signupState,
		scheduler:   scheduler,
	}
}

func (h *Handler) GetHomepage(c *gin.Context) {
	var buf bytes.Buffer

	result, err := h.homepage.Render(c.Request.Context(), &buf)
	if err != nil {
		slog.Error("Homepage rendering failed", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("X-Episode-Source", string(result.Source))
	c.Header("X-Episode-Count", strconv.Itoa(len(result.Episodes)))
	c.Header("Cache-Control", "no-store")

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (h *Handler) GetEpisodes(c *gin.Context) {
	result := h.homepage.Load(c.Request.Context())

	response := episodesResponse{
		Source:   string(result.Source),
		Count:    len(result.Episodes),
		Episodes: result.Episodes,
	}
	if result.Err != nil {
		response.Error = result.Err.Error()
	}

	c.Header("X-Episode-Source", string(result.Source))
	c.JSON(http.StatusOK, response)
}

func (h *Handler) GetHealth(c *gin.Context) {
	now := time.Now()

	health := map[string]interface{}{
		"timestamp": now.In(time.Local).Format(time.RFC3339),
		"version":   cfg.GetVersion(),
	}

	signupInfo := map[string]interface{}{
		"status": h.signupState.Status().String(),
	}
	if checkedAt := h.signupState.CheckedAt(); !checkedAt.IsZero() {
		signupInfo["checked_at"] = checkedAt.In(time.Local).Format(time.RFC3339)
		signupInfo["checked"] = humanize.RelTime(checkedAt, now, "ago", "from now")
	}
	health["signup"] = signupInfo

	if h.loadRepo != nil {
		stats, err := h.loadRepo.GetLoadStats(c.Request.Context())
		if err != nil {
			slog.Error("Database error", "operation", "get_load_stats", "error", err)
		} else {
			loads := map[string]interface{}{
				"total":    stats.Total,
				"fallback": stats.Fallback,
				"summary":  humanize.Comma(int64(stats.Total)) + " page loads",
			}
			if stats.LastLoadAt != nil {
				loads["last_load_at"] = stats.LastLoadAt.In(time.Local).Format(time.RFC3339)
				loads["last_load"] = humanize.RelTime(*stats.LastLoadAt, now, "ago", "from now")
			}
			health["loads"] = loads
		}
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) APIListLoads(c *gin.Context) {
	if h.loadRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Page-load history is disabled"})
		return
	}

	limit := defaultLoadsLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > database.MaxRecentLoads {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid limit parameter",
				"message": "limit must be between 1 and " + strconv.Itoa(database.MaxRecentLoads),
			})
			return
		}
		limit = parsed
	}

	loads, err := h.loadRepo.GetRecentLoads(c.Request.Context(), limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_recent_loads", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"loads": loads,
		"total": len(loads),
	})
}

func (h *Handler) APIProbeSignup(c *gin.Context) {
	if h.scheduler == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Scheduler is not running"})
		return
	}

	if err := h.scheduler.EnqueueProbe(); err != nil {
		slog.Error("Failed to enqueue signup probe", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to enqueue signup probe"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Signup probe enqueued",
		"status":  h.signupState.Status().String(),
	})
}
