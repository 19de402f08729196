package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedPayload struct {
	Total int      `json:"total"`
	Rate  *float64 `json:"rate"`
}

func TestAnalyticsKey(t *testing.T) {
	assert.Equal(t, "qa:questionnaire:12:summary", AnalyticsKey(12, ViewSummary))
	assert.Equal(t, "qa:questionnaire:12:*", QuestionnairePattern(12))
}

func TestMemoryCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	rate := 0.5
	require.NoError(t, c.Set(ctx, "k", cachedPayload{Total: 3, Rate: &rate}, time.Minute))

	var got cachedPayload
	require.NoError(t, c.Get(ctx, "k", &got))
	assert.Equal(t, 3, got.Total)
	require.NotNil(t, got.Rate)
	assert.Equal(t, 0.5, *got.Rate)

	assert.ErrorIs(t, c.Get(ctx, "missing", &got), ErrCacheMiss)
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	require.NoError(t, c.Set(ctx, "short", 1, 20*time.Millisecond))
	require.NoError(t, c.Set(ctx, "forever", 2, 0))

	var v int
	assert.Eventually(t, func() bool {
		return errors.Is(c.Get(ctx, "short", &v), ErrCacheMiss)
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, c.Get(ctx, "forever", &v))
	assert.Equal(t, 2, v)
}

func TestMemoryCache_DeletePatternRejectsBadGlob(t *testing.T) {
	c := NewMemoryCache()
	assert.Error(t, c.DeletePattern(context.Background(), "qa:[unterminated"))
}

func TestMemoryCache_DeletePattern(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	for _, view := range []View{ViewStatistics, ViewAnalytics, ViewSummary} {
		require.NoError(t, c.Set(ctx, AnalyticsKey(1, view), 1, time.Minute))
		require.NoError(t, c.Set(ctx, AnalyticsKey(2, view), 2, time.Minute))
	}

	require.NoError(t, c.DeletePattern(ctx, QuestionnairePattern(1)))

	var v int
	assert.ErrorIs(t, c.Get(ctx, AnalyticsKey(1, ViewSummary), &v), ErrCacheMiss)
	require.NoError(t, c.Get(ctx, AnalyticsKey(2, ViewSummary), &v))
	assert.Equal(t, 2, v)

	require.NoError(t, c.Delete(ctx, AnalyticsKey(2, ViewSummary)))
	assert.ErrorIs(t, c.Get(ctx, AnalyticsKey(2, ViewSummary), &v), ErrCacheMiss)
}
