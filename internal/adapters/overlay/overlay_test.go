package overlay_test

import (
	"context"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stagehand/internal/adapters/overlay"
)

func TestFade_ShowAndHideTakeTheirDuration(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		fade := overlay.NewFade(200*time.Millisecond, time.Second)
		start := time.Now()

		done, err := fade.Show(t.Context())
		require.NoError(t, err)
		require.NotNil(t, done)
		assert.True(t, fade.Visible())
		<-done
		assert.Equal(t, 200*time.Millisecond, time.Since(start))

		done, err = fade.Hide(t.Context())
		require.NoError(t, err)
		assert.False(t, fade.Visible())
		<-done
		assert.Equal(t, 1200*time.Millisecond, time.Since(start))
		assert.Equal(t, 1, fade.Shows())
	})
}

func TestFade_ZeroDurationCompletesImmediately(t *testing.T) {
	fade := overlay.NewFade(0, 0)

	done, err := fade.Show(context.Background())
	require.NoError(t, err)
	assert.Nil(t, done)

	done, err = fade.Hide(context.Background())
	require.NoError(t, err)
	assert.Nil(t, done)
}

func TestFade_CanceledContext(t *testing.T) {
	fade := overlay.NewFade(time.Second, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fade.Show(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, fade.Visible())
}

func TestNoop(t *testing.T) {
	var o overlay.Noop

	done, err := o.Show(context.Background())
	require.NoError(t, err)
	assert.Nil(t, done)

	done, err = o.Hide(context.Background())
	require.NoError(t, err)
	assert.Nil(t, done)
}
