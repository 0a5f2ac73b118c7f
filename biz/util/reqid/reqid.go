package reqid

import (
	"context"
)

type requestIdKey struct{}

func WithRequestId(ctx context.Context, requestId string) context.Context {
	return context.WithValue(ctx, requestIdKey{}, requestId)
}

func GetRequestId(ctx context.Context) string {
	requestId, ok := ctx.Value(requestIdKey{}).(string)
	if ok {
		return requestId
	}
	return ""
}
