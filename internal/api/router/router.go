package router

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	hertzconfig "github.com/cloudwego/hertz/pkg/common/config"
	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/keyauth"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"

	"resume-parser-go/internal/api/handler"
	"resume-parser-go/internal/config"
)

// APIKeyHeader API Key 所在的请求头
const APIKeyHeader = "X-API-Key"

var errInvalidAPIKey = errors.New("invalid api key")

// NewServer 按配置创建 Hertz 服务并注册路由
func NewServer(cfg *config.Config, resumeHandler *handler.ResumeHandler) *server.Hertz {
	opts := []hertzconfig.Option{server.WithHostPorts(cfg.Server.Address)}
	if cfg.Server.MaxUploadMB > 0 {
		// 预留 multipart 边界等开销
		opts = append(opts, server.WithMaxRequestBodySize(cfg.Server.MaxUploadMB<<20+1<<20))
	}

	var tracerCfg *hertztracing.Config
	if cfg.Tracing.Enabled {
		tracer, tc := hertztracing.NewServerTracer()
		opts = append(opts, tracer)
		tracerCfg = tc
	}

	h := server.New(opts...)
	if tracerCfg != nil {
		h.Use(hertztracing.ServerMiddleware(tracerCfg))
	}
	h.Use(AccessLog())
	RegisterRoutes(h, resumeHandler, cfg.Server.APIKeys)
	return h
}

// AccessLog 记录请求方法、路径、状态码与耗时
func AccessLog() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		start := time.Now()
		ctx.Next(c)
		glog.CtxInfof(c, "%s %s status=%d cost=%s", ctx.Method(), ctx.Path(), ctx.Response.StatusCode(), time.Since(start))
	}
}

// RegisterRoutes 注册 API 路由；apiKeys 非空时简历接口需要 X-API-Key
func RegisterRoutes(h *server.Hertz, resumeHandler *handler.ResumeHandler, apiKeys []string) {
	// 添加健康检查
	h.GET("/health", resumeHandler.Health)

	var middleware []app.HandlerFunc
	if len(apiKeys) > 0 {
		middleware = append(middleware, NewAPIKeyMiddleware(apiKeys))
	}
	resume := h.Group("/api/v1/resume", middleware...)

	resume.POST("/extract", resumeHandler.Extract)
	resume.POST("/refine-extract", resumeHandler.RefineExtract)
	resume.POST("/direct-extract", resumeHandler.DirectExtract)
	resume.GET("/supported-formats", resumeHandler.SupportedFormats)
	resume.GET("/history/:md5", resumeHandler.History)
}

// NewAPIKeyMiddleware 校验请求头中的 API Key
func NewAPIKeyMiddleware(apiKeys []string) app.HandlerFunc {
	keys := make([][]byte, 0, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			keys = append(keys, []byte(k))
		}
	}
	return keyauth.New(
		keyauth.WithKeyLookUp("header:"+APIKeyHeader, ""),
		keyauth.WithContextKey("api_key"),
		keyauth.WithValidator(func(ctx context.Context, c *app.RequestContext, key string) (bool, error) {
			for _, k := range keys {
				if subtle.ConstantTimeCompare(k, []byte(key)) == 1 {
					return true, nil
				}
			}
			return false, errInvalidAPIKey
		}),
		keyauth.WithErrorHandler(func(ctx context.Context, c *app.RequestContext, err error) {
			c.AbortWithStatusJSON(consts.StatusUnauthorized, handler.Response{Message: err.Error()})
		}),
	)
}
