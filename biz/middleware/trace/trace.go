package trace

import (
	"context"

	"docsmith/be/biz/util/id_gen"
	"docsmith/be/biz/util/reqid"

	"github.com/cloudwego/hertz/pkg/app"
)

const (
	headerKeyRequestId = "X-Request-ID"
)

func New() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		requestID := c.Request.Header.Get(headerKeyRequestId)
		if requestID == "" {
			requestID = id_gen.NewID()
		}
		ctx = reqid.WithRequestId(ctx, requestID)
		c.Next(ctx)
		c.Header(headerKeyRequestId, requestID)
	}
}
