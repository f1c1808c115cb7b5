package mix

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"mixhub/internal/catalog"
	"mixhub/pkg/models"
)

type Handler struct {
	Repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)            // GET /mixes
	rg.GET("/:id", h.getByID)     // GET /mixes/:id
	rg.GET("/:id/link", h.getLink) // GET /mixes/:id/link
}

// RegisterStatsRoutes mounts the aggregation endpoints.
func (h *Handler) RegisterStatsRoutes(rg *gin.RouterGroup) {
	rg.GET("/categories", h.categoryStats)
}

func (h *Handler) list(c *gin.Context) {
	q := ListQuery{
		Q:                 c.Query("q"),
		CompleteOnly:      c.Query("complete") == "true",
		IncludeDuplicates: c.Query("include_duplicates") == "true",
		Limit:             parseInt(c.Query("limit"), 20),
		Offset:            parseInt(c.Query("offset"), 0),
	}

	// categories=House,Techno OR categories=House&categories=Techno
	categories := c.QueryArray("categories")
	if len(categories) == 1 && strings.Contains(categories[0], ",") {
		categories = strings.Split(categories[0], ",")
	}
	q.Categories = categories

	total, err := h.Repo.Count(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "count failed"})
		return
	}

	items, err := h.Repo.List(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	views := make([]models.MixView, 0, len(items))
	for _, m := range items {
		views = append(views, toView(m, false))
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"limit":  q.Limit,
		"offset": q.Offset,
		"items":  views,
	})
}

func (h *Handler) getByID(c *gin.Context) {
	m, found, err := h.lookup(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, toView(*m, true))
}

func (h *Handler) getLink(c *gin.Context) {
	m, found, err := h.lookup(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"url":  m.URL,
		"link": catalog.MixLink(*m),
	})
}

func (h *Handler) categoryStats(c *gin.Context) {
	// filters absent and filters empty behave differently, so track
	// presence explicitly.
	var filters []string
	if raw, present := c.GetQueryArray("filters"); present {
		filters = []string{}
		for _, f := range raw {
			for _, part := range strings.Split(f, ",") {
				if part != "" {
					filters = append(filters, part)
				}
			}
		}
	}

	mixes, err := h.Repo.AllForStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats failed"})
		return
	}

	counts := catalog.ReduceCategories(mixes, filters)

	total := 0
	for _, m := range mixes {
		if !m.Duplicate {
			total++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"total_mixes": total,
		"categories":  counts,
	})
}

// lookup resolves the :id path param (the page slug without "/w/")
// to a stored mix.
func (h *Handler) lookup(c *gin.Context) (*models.Mix, bool, error) {
	slug := strings.TrimSpace(c.Param("id"))
	m, err := h.Repo.GetByURL(c.Request.Context(), SlugToURL(slug))
	if err != nil {
		return nil, false, err
	}
	return m, m != nil, nil
}

// SlugToURL turns an API mix id back into the stored wiki path.
func SlugToURL(slug string) string {
	return "/w/" + strings.TrimPrefix(slug, "/w/")
}

// URLToSlug is the inverse of SlugToURL.
func URLToSlug(url string) string {
	return strings.TrimPrefix(url, "/w/")
}

func toView(m models.Mix, withTracklist bool) models.MixView {
	v := models.MixView{
		URL:               m.URL,
		Date:              m.Date,
		Artists:           m.Artists,
		Venue:             m.Venue,
		Categories:        m.Categories,
		Duplicate:         m.Duplicate,
		DuplicateOf:       m.DuplicateOf,
		Length:            m.Length,
		Link:              catalog.MixLink(m),
		CompleteTracklist: catalog.CompleteTracklist(m),
	}
	if withTracklist {
		v.Tracklist = m.Tracklist
	}
	return v
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
