package http

import (
	"context"
	"net/http"
	"sort"

	"github.com/dkeye/Interview/internal/adapters/signal"
	"github.com/dkeye/Interview/internal/app/orch"
	"github.com/dkeye/Interview/internal/config"
	"github.com/dkeye/Interview/internal/domain"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

type Deps struct {
	Orch       *orch.Orchestrator
	Signal     *signal.SignalWSController
	Identity   *IdentityResolver
	ICEServers []webrtc.ICEServer
}

func SetupRouter(ctx context.Context, cfg *config.Config, d Deps) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{Path: "/", MaxAge: 3600 * 24 * 7, HttpOnly: true, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions("InterviewSessions", store))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	log.Info().Str("module", "adapters.http").Msg("router setup")

	api := r.Group("/api")

	api.GET("/ws/signal", func(c *gin.Context) {
		var user *domain.User
		if id, ok := d.Identity.Resolve(c); ok {
			user = id.User
			log.Info().Str("module", "adapters.http").Str("user", string(user.ID)).Bool("verified", id.Verified).Msg("ws signal endpoint hit")
		}
		d.Signal.HandleSignal(ctx, c, user)
	})

	api.GET("/whoami", func(c *gin.Context) {
		id, ok := d.Identity.Resolve(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no identity"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"userId":   id.User.ID,
			"name":     id.User.Username,
			"verified": id.Verified,
		})
	})

	api.GET("/rooms", func(c *gin.Context) {
		rooms := d.Orch.Rooms.List()
		sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
		c.JSON(http.StatusOK, gin.H{"rooms": rooms})
	})

	api.GET("/rooms/:id/members", func(c *gin.Context) {
		room, ok := d.Orch.Rooms.GetRoom(domain.InterviewID(c.Param("id")))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no such room"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"members": room.MembersSnapshot()})
	})

	api.GET("/online", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"users": d.Orch.Registry.OnlineUsers()})
	})

	api.GET("/ice-servers", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"iceServers": d.ICEServers})
	})

	return r
}
