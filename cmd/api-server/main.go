package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"mixhub/internal/auth"
	"mixhub/internal/chat"
	"mixhub/internal/favorites"
	"mixhub/internal/listens"
	"mixhub/internal/live"
	"mixhub/internal/mix"
	"mixhub/internal/notify"
	"mixhub/internal/reviews"
	"mixhub/internal/scraper"
	"mixhub/pkg/database"
	"mixhub/pkg/utils"
)

func main() {
	_ = godotenv.Load()

	cfg := database.DefaultConfig()
	db := database.MustOpen(cfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	// Live event fan-out over TCP and WebSocket
	hub := live.NewHub()
	router.GET("/ws", live.WSHandler(hub))
	tcpSrv := live.NewServer(utils.Addr("MIXHUB_TCP_ADDR", ":7070"), hub)

	// Per-mix chat rooms
	chatHub := chat.NewHub(0)
	router.GET("/ws/chat", chat.WSHandler(chatHub))
	router.GET("/chat/history", chat.HistoryHandler(chatHub))

	// UDP push notifications for newly scraped mixes
	registry := notify.NewRegistry()
	notifySrv := notify.NewServer(utils.Addr("MIXHUB_UDP_ADDR", ":7071"), registry, nil)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": cfg.Path})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":      "not_ready",
				"db_error":    err.Error(),
				"tcp_clients": stats.TCPClients,
				"ws_clients":  stats.WSClients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      "ready",
			"db":          "ok",
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	router.GET("/debug", func(c *gin.Context) {
		stats := hub.Stats()
		c.JSON(http.StatusOK, gin.H{
			"db":               cfg.Path,
			"tcp_clients":      stats.TCPClients,
			"ws_clients":       stats.WSClients,
			"events_delivered": stats.EventsDelivered,
		})
	})

	// Mixes (public)
	mixRepo := mix.NewRepo(db)
	mixHandler := mix.NewHandler(mixRepo)
	mixHandler.RegisterRoutes(router.Group("/mixes"))
	mixHandler.RegisterStatsRoutes(router.Group("/stats"))

	// Auth
	authCfg := utils.LoadAuthConfig()
	tokenSvc := auth.TokenService{
		Secret:   []byte(authCfg.JWTSecret),
		Issuer:   authCfg.JWTIssuer,
		Duration: authCfg.JWTDuration,
	}
	authRepo := auth.NewRepo(db)
	authHandler := auth.NewHandler(authRepo, tokenSvc)
	authHandler.RegisterRoutes(router.Group("/auth"))

	// Reviews (public listing)
	reviewRepo := reviews.NewRepo(db)
	reviewHandler := reviews.NewHandler(reviewRepo)
	reviewHandler.RegisterPublicRoutes(&router.RouterGroup)

	// Protected routes
	protected := router.Group("/users")
	protected.Use(auth.AuthMiddleware(tokenSvc, authRepo))

	protected.GET("/me", func(c *gin.Context) {
		claims := auth.MustGetClaims(c)
		c.JSON(http.StatusOK, gin.H{
			"id":       claims.UserID,
			"username": claims.Username,
			"email":    claims.Email,
		})
	})

	favRepo := favorites.NewRepo(db)
	favHandler := favorites.NewHandler(favRepo, hub)
	favHandler.RegisterRoutes(protected)

	listenRepo := listens.NewRepo(db)
	listenHandler := listens.NewHandler(listenRepo, hub)
	listenHandler.RegisterRoutes(protected)

	reviewHandler.RegisterProtectedRoutes(protected)

	// Admin: re-scrape on demand
	admin := router.Group("/admin")
	admin.Use(auth.AuthMiddleware(tokenSvc, authRepo))
	admin.POST("/refresh", refreshHandler(hub, notifySrv, mixRepo))

	httpSrv := &http.Server{
		Addr:    utils.Addr("MIXHUB_HTTP_ADDR", ":8080"),
		Handler: router,
	}

	errCh := make(chan error, 3)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := tcpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := notifySrv.Run(); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("HTTP API server listening on %s", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down servers")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	if err := tcpSrv.Close(); err != nil {
		log.Printf("tcp shutdown error: %v", err)
	}
	if err := notifySrv.Close(); err != nil {
		log.Printf("udp shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("servers stopped")
}

// refreshHandler runs the scraper inline and pushes notifications for
// anything it has not seen before. Intended for small admin-triggered
// refreshes; the standalone scraper binary is the bulk path.
func refreshHandler(hub *live.Hub, notifySrv *notify.Server, mixRepo *mix.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		src := scraper.NewMixesDBSource()
		// admin refreshes are bounded by default
		src.MaxPages = 1
		if pages, err := strconv.Atoi(c.Query("max_pages")); err == nil && pages > 0 {
			src.MaxPages = pages
		}

		agg := scraper.NewAggregator(src)
		mixes, err := agg.FetchAndMerge(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "scrape failed"})
			return
		}

		newURLs, err := scraper.SaveToDatabase(c.Request.Context(), mixRepo.DB, mixes)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
			return
		}

		if len(newURLs) > 0 {
			go hub.BroadcastJSON(live.Event{
				Type:  "new_mixes",
				Count: len(newURLs),
				At:    time.Now().UTC(),
			})
			for _, url := range newURLs {
				m, err := mixRepo.GetByURL(c.Request.Context(), url)
				if err != nil || m == nil {
					continue
				}
				notifySrv.BroadcastNewMix(m.URL, m.Date, m.Artists)
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"scraped": len(mixes),
			"new":     len(newURLs),
		})
	}
}
