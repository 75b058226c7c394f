package services

import (
	"context"
	"sync"

	"phishshield/internal/domain/models"
)

// ThreatLog records completed scans for the recent-threats and stats APIs.
// Implementations must support concurrent appends.
type ThreatLog interface {
	Append(ctx context.Context, entry models.ThreatLogEntry) error
	Recent(ctx context.Context, limit int) ([]models.ThreatLogEntry, error)
	Stats(ctx context.Context) (models.ThreatStats, error)
}

// MemoryThreatLog is the default process-lifetime threat log.
type MemoryThreatLog struct {
	mu      sync.RWMutex
	entries []models.ThreatLogEntry
}

func NewMemoryThreatLog() *MemoryThreatLog {
	return &MemoryThreatLog{}
}

func (l *MemoryThreatLog) Append(_ context.Context, entry models.ThreatLogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
	return nil
}

// Recent returns up to limit entries, newest first.
func (l *MemoryThreatLog) Recent(_ context.Context, limit int) ([]models.ThreatLogEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if limit <= 0 || limit > len(l.entries) {
		limit = len(l.entries)
	}
	out := make([]models.ThreatLogEntry, 0, limit)
	for i := len(l.entries) - 1; i >= len(l.entries)-limit; i-- {
		out = append(out, l.entries[i])
	}
	return out, nil
}

func (l *MemoryThreatLog) Stats(_ context.Context) (models.ThreatStats, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	stats := models.ThreatStats{
		TotalScans: len(l.entries),
		ByType:     map[models.ScanType]int{},
	}
	for _, e := range l.entries {
		if e.IsPhishing {
			stats.PhishingDetected++
		}
		stats.ByType[e.Type]++
	}
	stats.SafeCount = stats.TotalScans - stats.PhishingDetected
	stats.DetectionRate = detectionRate(stats.PhishingDetected, stats.TotalScans)
	return stats, nil
}

// detectionRate is the phishing percentage truncated to one decimal place.
func detectionRate(phishing, total int) float64 {
	if total < 1 {
		total = 1
	}
	rate := float64(phishing) / float64(total) * 100.0
	return float64(int(rate*10)) / 10.0
}
