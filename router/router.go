package router

import (
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/shitamachi/fcm-bridge/api"
	"github.com/shitamachi/fcm-bridge/config"
	_ "github.com/shitamachi/fcm-bridge/docs"
	"github.com/shitamachi/fcm-bridge/handler"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func InitRouter(config *config.AppConfig, appCtx *api.AppContext) *gin.Engine {
	switch config.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	ctx := api.Context{
		AppContext: appCtx,
	}

	r.GET("/health", ctx.WrapperGinHandleFunc(handler.Health))

	v1 := r.Group("/v1")
	v1.POST("/apns/device_token", ctx.WrapperGinHandleFunc(handler.RegisterDeviceToken))
	v1.POST("/apns/notification", ctx.WrapperGinHandleFunc(handler.DeliverNotification))
	v1.GET("/tokens", ctx.WrapperGinHandleFunc(handler.GetTokens))
	v1.POST("/topics/subscribe", ctx.WrapperGinHandleFunc(handler.SubscribeTopic))
	v1.POST("/topics/unsubscribe", ctx.WrapperGinHandleFunc(handler.UnsubscribeTopic))
	v1.POST("/test_push/:type", ctx.WrapperGinHandleFunc(handler.TestPush))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	//pprof
	pprof.RouteRegister(r.Group(""))
	return r
}
