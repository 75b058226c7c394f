package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phishshield/internal/domain/models"
)

func TestMemoryThreatLogRecentNewestFirst(t *testing.T) {
	log := NewMemoryThreatLog()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, log.Append(ctx, models.ThreatLogEntry{
			ID:        fmt.Sprintf("id-%d", i),
			Type:      models.ScanTypeURL,
			Target:    fmt.Sprintf("http://example-%d.com", i),
			Timestamp: time.Now().UTC(),
		}))
	}

	entries, err := log.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "id-4", entries[0].ID)
	assert.Equal(t, "id-3", entries[1].ID)
	assert.Equal(t, "id-2", entries[2].ID)
}

func TestMemoryThreatLogRecentLimitLargerThanLog(t *testing.T) {
	log := NewMemoryThreatLog()
	ctx := context.Background()

	require.NoError(t, log.Append(ctx, models.ThreatLogEntry{ID: "only"}))

	entries, err := log.Recent(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestMemoryThreatLogStats(t *testing.T) {
	log := NewMemoryThreatLog()
	ctx := context.Background()

	require.NoError(t, log.Append(ctx, models.ThreatLogEntry{ID: "a", Type: models.ScanTypeURL, IsPhishing: true}))
	require.NoError(t, log.Append(ctx, models.ThreatLogEntry{ID: "b", Type: models.ScanTypeURL, IsPhishing: false}))
	require.NoError(t, log.Append(ctx, models.ThreatLogEntry{ID: "c", Type: models.ScanTypeSMS, IsPhishing: true}))

	stats, err := log.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalScans)
	assert.Equal(t, 2, stats.PhishingDetected)
	assert.Equal(t, 1, stats.SafeCount)
	assert.Equal(t, 66.6, stats.DetectionRate)
	assert.Equal(t, 2, stats.ByType[models.ScanTypeURL])
	assert.Equal(t, 1, stats.ByType[models.ScanTypeSMS])
}

func TestMemoryThreatLogEmptyStats(t *testing.T) {
	log := NewMemoryThreatLog()

	stats, err := log.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalScans)
	assert.Equal(t, 0.0, stats.DetectionRate)
}

func TestMemoryThreatLogConcurrentAppend(t *testing.T) {
	log := NewMemoryThreatLog()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = log.Append(ctx, models.ThreatLogEntry{ID: fmt.Sprintf("id-%d", i)})
		}(i)
	}
	wg.Wait()

	stats, err := log.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, stats.TotalScans)
}

func TestDetectionRateTruncation(t *testing.T) {
	assert.Equal(t, 0.0, detectionRate(0, 0))
	assert.Equal(t, 100.0, detectionRate(3, 3))
	assert.Equal(t, 33.3, detectionRate(1, 3))
}
