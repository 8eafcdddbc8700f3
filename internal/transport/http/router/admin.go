package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"taskhub/internal/core/auth"
	"taskhub/internal/core/server"
	"taskhub/internal/domain"
	mdw "taskhub/internal/transport/http/middleware"
)

func NewAdminEngine(l *zap.Logger, jwter *auth.JWTer) *gin.Engine {
	r := server.NewBaseEngine(l)

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		mdw.Metrics(),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 管理端 v1（统一要求 ADMIN 全局角色）
	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(jwter, string(domain.GlobalRoleAdmin)))

	MountAllAdmin(admin)

	return r
}
