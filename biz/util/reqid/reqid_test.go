package reqid

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestId(t *testing.T) {
	ctx := context.Background()
	requestId := "123456zbcd"
	ctx = WithRequestId(ctx, requestId)

	assert.Equal(t, requestId, GetRequestId(ctx))
}

func TestRequestId_Missing(t *testing.T) {
	assert.Equal(t, "", GetRequestId(context.Background()))
}
