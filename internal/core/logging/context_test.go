package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetList(ctx))
	assert.Empty(t, GetCommand(ctx))

	ctx = WithList(ctx, "work")
	ctx = WithCommand(ctx, "add")

	assert.Equal(t, "work", GetList(ctx))
	assert.Equal(t, "add", GetCommand(ctx))
}

func TestContextValues_Overwrite(t *testing.T) {
	ctx := WithList(context.Background(), "home")
	ctx = WithList(ctx, "work")

	assert.Equal(t, "work", GetList(ctx))
}
