package actorcontext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActorRoundTrip(t *testing.T) {
	ctx := WithActorID(context.Background(), " clerk-7 ")

	id, ok := ActorIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "clerk-7", id)
	assert.Equal(t, "clerk-7", *ActorID(ctx))
}

func TestMissingActorIsNil(t *testing.T) {
	ctx := WithActorID(context.Background(), "  ")
	assert.Nil(t, ActorID(ctx))

	_, ok := ActorIDFromContext(context.Background())
	assert.False(t, ok)
}
