package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// corsMethods 允许的全部方法
var corsMethods = []string{
	http.MethodDelete,
	http.MethodGet,
	http.MethodHead,
	http.MethodOptions,
	http.MethodPatch,
	http.MethodPost,
	http.MethodPut,
}

// CORSPolicy 跨域策略：精确匹配来源，允许全部方法和请求头
type CORSPolicy struct {
	AllowedOrigins   []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// Allowed 判断来源是否在白名单中
func (p CORSPolicy) Allowed(origin string) bool {
	for _, o := range p.AllowedOrigins {
		if o == origin {
			return true
		}
	}
	return false
}

// CORS 返回跨域中间件
// 白名单内的来源交给 gin-contrib/cors 处理；白名单外的简单请求照常分发且不带跨域头，
// 白名单外的预检请求返回 400
func CORS(policy CORSPolicy) gin.HandlerFunc {
	var inner gin.HandlerFunc
	if len(policy.AllowedOrigins) > 0 {
		inner = cors.New(cors.Config{
			AllowOrigins:     policy.AllowedOrigins,
			AllowMethods:     corsMethods,
			AllowCredentials: policy.AllowCredentials,
			MaxAge:           policy.MaxAge,
		})
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}

		preflight := c.Request.Method == http.MethodOptions &&
			c.GetHeader("Access-Control-Request-Method") != ""

		if inner == nil || !policy.Allowed(origin) {
			if preflight {
				c.String(http.StatusBadRequest, "Disallowed CORS origin")
				c.Abort()
				return
			}
			c.Next()
			return
		}

		// 允许任意请求头：回显预检声明的请求头
		if preflight {
			if requested := c.GetHeader("Access-Control-Request-Headers"); requested != "" {
				c.Header("Access-Control-Allow-Headers", requested)
			}
		}

		inner(c)
	}
}
