package obs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracer_DisabledWithoutEndpoint(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), "viewing-scheduler", "", "test")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
