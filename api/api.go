package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cache"
	"github.com/gin-contrib/cache/persistence"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"go.uber.org/zap"

	"github.com/session-foundation/sn-liquidator/db"
)

type Config struct {
	Addr string `yaml:"apiAddr" env:"API_ADDR" env-description:"Listen address of the status API; empty disables it"`
}

// Info describes the running liquidator in /api/status.
type Info struct {
	Version  string `json:"version"`
	Network  string `json:"network"`
	Wallet   string `json:"wallet"`
	Contract string `json:"contract"`
	DryRun   bool   `json:"dry_run"`
}

type Api struct {
	db       *db.BoltDB
	info     Info
	registry *prometheus.Registry
	logger   *zap.Logger
}

func New(logger *zap.Logger, db *db.BoltDB, registry *prometheus.Registry, info Info) *Api {
	return &Api{
		db:       db,
		info:     info,
		registry: registry,
		logger:   logger,
	}
}

func (api *Api) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	// create a rate limiter
	rate := limiter.Rate{
		Limit:  10,
		Period: time.Minute,
	}
	store := memory.NewStore()
	limit := limiter.New(store, rate)

	// add cache middleware
	cacheStore := persistence.NewInMemoryStore(time.Minute)

	apiGroup := router.Group("/api", ginlimiter.NewMiddleware(limit))
	apiGroup.GET("/status", cache.CachePage(cacheStore, time.Minute, api.GetStatus))
	apiGroup.GET("/liquidations", cache.CachePage(cacheStore, time.Minute, api.GetLiquidations))
	apiGroup.GET("/liquidations/:pubkey", cache.CachePage(cacheStore, time.Minute, api.GetLiquidationByPubKey))

	if api.registry != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(api.registry, promhttp.HandlerOpts{})))
	}
	return router
}

// Start serves until ctx is cancelled.
func (api *Api) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	api.logger.Info("Starting server", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (api *Api) GetStatus(c *gin.Context) {
	state, err := api.db.GetState()
	if err != nil {
		api.logger.Error("Error getting state", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	counts, err := api.db.CountByStatus()
	if err != nil {
		api.logger.Error("Error counting liquidations", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"info":         api.info,
		"state":        state,
		"liquidations": counts,
	})
}

func (api *Api) GetLiquidations(c *gin.Context) {
	liquidations, err := api.db.ListLiquidations(db.Status(c.Query("status")))
	if err != nil {
		api.logger.Error("Error getting liquidations", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	// Add metadata to response
	response := gin.H{
		"liquidations": liquidations,
		"metadata": gin.H{
			"count": len(liquidations),
		},
	}
	c.JSON(http.StatusOK, response)
}

func (api *Api) GetLiquidationByPubKey(c *gin.Context) {
	pubkey := c.Param("pubkey")
	if pubkey == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "pubkey is required"})
		return
	}
	liquidation, err := api.db.GetLiquidation(pubkey)
	if errors.Is(err, db.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "liquidation not found"})
		return
	}
	if err != nil {
		api.logger.Error("Error getting liquidation", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, liquidation)
}
