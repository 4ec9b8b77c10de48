package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stagehand/internal/adapters/telemetry"
	"go.trai.ch/stagehand/internal/core/domain"
	"go.trai.ch/stagehand/internal/core/ports"
)

func TestNoop(t *testing.T) {
	tel := telemetry.NewNoop()

	ctx, v := tel.Record(context.Background(), "switch levels/a", ports.WithGroup("switch"))
	got, ok := ports.VertexFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, v, got)

	n, err := v.Stdout().Write([]byte("ignored"))
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	v.Log(domain.LogLevelInfo, "ignored")
	v.Cached()
	v.Complete(nil)
	assert.NoError(t, tel.Close())
}
