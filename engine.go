package be

import (
	"docsmith/be/biz/handler"
	"docsmith/be/biz/middleware"
	"docsmith/be/biz/middleware/authn"

	"github.com/cloudwego/hertz/pkg/app/server"
	hertzconfig "github.com/cloudwego/hertz/pkg/common/config"
)

func NewEngine(opts ...hertzconfig.Option) *server.Hertz {
	h := server.New(opts...)
	h.Use(middleware.Suite()...)

	api := h.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/signup", handler.Signup)
	auth.POST("/login", handler.Login)
	auth.POST("/refresh_token", handler.RefreshToken)
	auth.POST("/logout", handler.Logout)

	user := api.Group("/user", authn.ValidateMW())
	user.GET("/info", handler.GetUserInfo)
	user.GET("/logins", handler.ListLogins)

	return h
}
