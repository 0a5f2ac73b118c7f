package middleware

import (
	"docsmith/be/biz/middleware/accesslog"
	"docsmith/be/biz/middleware/cors"
	"docsmith/be/biz/middleware/ratelimit"
	"docsmith/be/biz/middleware/recovery"
	"docsmith/be/biz/middleware/session"
	"docsmith/be/biz/middleware/trace"

	"github.com/cloudwego/hertz/pkg/app"
)

func Suite() []app.HandlerFunc {
	return []app.HandlerFunc{
		recovery.New(),  // panic handler
		trace.New(),     // request log id
		accesslog.New(), // access log
		cors.New(),      // cross-origin requests
		session.New(),   // redis-backed sessions
		ratelimit.New(), // per-path limiter
	}
}
