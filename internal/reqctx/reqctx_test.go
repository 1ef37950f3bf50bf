package reqctx

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestWithRequestContext_GeneratesUUID(t *testing.T) {
	ctx := WithRequestContext(context.Background(), "https://example.com")
	rc := GetRequestContext(ctx)

	_, err := uuid.Parse(rc.RequestID)
	assert.NoError(t, err)
	assert.Equal(t, "https://example.com", rc.URL)
}

func TestWithRequestContext_KeepsExistingID(t *testing.T) {
	ctx := WithID(context.Background(), "req-1", "")
	ctx = WithRequestContext(ctx, "https://example.com")

	rc := GetRequestContext(ctx)
	assert.Equal(t, "req-1", rc.RequestID)
	assert.Equal(t, "https://example.com", rc.URL)
}

func TestGetRequestContext_Missing(t *testing.T) {
	assert.Equal(t, "unknown", GetRequestContext(context.Background()).RequestID)
}
