package favorites

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"mixhub/internal/auth"
	"mixhub/internal/live"
	"mixhub/internal/mix"
	"mixhub/pkg/models"
)

type Handler struct {
	Repo *Repo
	Hub  *live.Hub
}

func NewHandler(repo *Repo, hub *live.Hub) *Handler {
	return &Handler{Repo: repo, Hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/favorites", h.list)
	rg.POST("/favorites", h.addOrUpdate)
	rg.PUT("/favorites/:mix_id", h.addOrUpdate)
	rg.DELETE("/favorites/:mix_id", h.remove)
	rg.GET("/favorites/:mix_id", h.getOne)
}

type upsertReq struct {
	MixID  string `json:"mix_id"` // required for POST
	Status string `json:"status"`
}

func (h *Handler) addOrUpdate(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req upsertReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	mixID := strings.TrimSpace(req.MixID)
	if mixID == "" {
		mixID = strings.TrimSpace(c.Param("mix_id"))
	}
	if mixID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mix_id required"})
		return
	}
	mixURL := mix.SlugToURL(mixID)

	status := normalizeStatus(req.Status)
	if status == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "status must be one of: want_to_hear, listening, heard, hidden",
		})
		return
	}

	item := models.FavoriteItem{
		UserID: claims.UserID,
		MixURL: mixURL,
		Status: status,
	}
	if err := h.Repo.Upsert(c.Request.Context(), item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	// Return the canonical stored row including updated_at
	saved, err := h.Repo.Get(c.Request.Context(), claims.UserID, mixURL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch saved failed"})
		return
	}
	if saved == nil {
		// should not happen, but safe
		saved = &item
		saved.UpdatedAt = time.Now().UTC()
	}

	if h.Hub != nil {
		ev := live.Event{
			Type:   "favorite.update",
			UserID: claims.UserID,
			MixURL: mixURL,
			Status: saved.Status,
			At:     time.Now().UTC(),
		}
		go h.Hub.BroadcastJSON(ev)
	}

	c.JSON(http.StatusOK, saved)
}

func (h *Handler) list(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	status := strings.TrimSpace(c.Query("status"))
	if status != "" {
		status = normalizeStatus(status)
		if status == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
			return
		}
	}

	limit := parseInt(c.Query("limit"), 20)
	offset := parseInt(c.Query("offset"), 0)

	items, total, err := h.Repo.List(c.Request.Context(), claims.UserID, status, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"limit":  limit,
		"offset": offset,
		"items":  items,
	})
}

func (h *Handler) remove(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	mixID := strings.TrimSpace(c.Param("mix_id"))
	if mixID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mix_id required"})
		return
	}
	mixURL := mix.SlugToURL(mixID)

	ok, err := h.Repo.Delete(c.Request.Context(), claims.UserID, mixURL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	if h.Hub != nil {
		ev := live.Event{
			Type:   "favorite.delete",
			UserID: claims.UserID,
			MixURL: mixURL,
			At:     time.Now().UTC(),
		}
		go h.Hub.BroadcastJSON(ev)
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *Handler) getOne(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	mixID := strings.TrimSpace(c.Param("mix_id"))
	if mixID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mix_id required"})
		return
	}

	it, err := h.Repo.Get(c.Request.Context(), claims.UserID, mix.SlugToURL(mixID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if it == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, it)
}

func normalizeStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "want to hear", "want_to_hear", "wishlist":
		return "want_to_hear"
	case "listening":
		return "listening"
	case "heard", "listened":
		return "heard"
	case "hidden", "hide":
		return "hidden"
	default:
		return ""
	}
}

func parseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
