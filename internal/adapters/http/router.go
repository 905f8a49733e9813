package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Presence/internal/adapters/signal"
	"github.com/dkeye/Presence/internal/app/orch"
	"github.com/dkeye/Presence/internal/config"
	"github.com/dkeye/Presence/internal/domain"
)

const sessionName = "PresenceSession"

func SignalOptions(cfg *config.Config) signal.Options {
	opts := signal.DefaultOptions()
	if cfg.ReadLimit > 0 {
		opts.ReadLimit = cfg.ReadLimit
	}
	if cfg.PingPeriod > 0 {
		opts.PingPeriod = cfg.PingPeriod
	}
	if cfg.PongWait > 0 {
		opts.PongWait = cfg.PongWait
	}
	if cfg.WriteWait > 0 {
		opts.WriteWait = cfg.WriteWait
	}
	if cfg.SendBuffer > 0 {
		opts.SendBuffer = cfg.SendBuffer
	}
	return opts
}

func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	secret := cfg.Secret
	if secret == "" {
		secret = cfg.Auth.JWTSecret
	}
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{Path: "/", MaxAge: 3600 * 24 * 7, HttpOnly: true})
	r.Use(sessions.Sessions(sessionName, store))

	log.Info().Str("module", "adapters.http").Str("mode", cfg.Mode).Msg("router setup")

	r.GET("/health", func(c *gin.Context) {
		st := o.Stats()
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"timestamp":   time.Now().UTC().Format(domain.TimestampLayout),
			"rooms":       st.Rooms,
			"connections": st.Connections,
		})
	})

	api := r.Group("/api")
	api.POST("/session", createSession(o))
	api.DELETE("/session", deleteSession)

	ctrl := signal.NewSignalWSController(o, SignalOptions(cfg))
	api.GET("/ws", Admission(o), func(c *gin.Context) {
		id := c.MustGet(identityKey).(domain.Identity)
		log.Info().Str("module", "adapters.http").Str("user", string(id.ID)).Msg("ws signal endpoint hit")
		ctrl.HandleSignal(ctx, c, id)
	})

	internal := r.Group("/internal", InternalKey(cfg.InternalKey))
	internal.POST("/notify/users/:userId", notifyUser(o))
	internal.POST("/notify/boards/:boardId", notifyBoard(o))
	internal.POST("/boards/:boardId/updates/:kind", boardUpdate(o))
	internal.GET("/boards/:boardId/members", boardMembers(o))
	internal.GET("/boards", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rooms": o.Rooms()})
	})

	return r
}
