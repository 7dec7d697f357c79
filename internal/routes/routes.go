package routes

import "github.com/gin-gonic/gin"

// RouteCollection 一组一起挂载的路由
type RouteCollection interface {
	Name() string
	Register(r gin.IRouter)
}
