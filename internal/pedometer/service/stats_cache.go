package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/2beens/pedometer/internal/pedometer/activity"

	"github.com/cespare/xxhash/v2"
	log "github.com/sirupsen/logrus"
)

// statsCacheKey covers every input of a stats computation. The window only
// moves at day boundaries, so the reference instant enters the key as its
// day (with its zone), plus a marker for the exact midnight instant.
func statsCacheKey(entries []activity.HistoryEntry, window activity.Window, metric activity.Metric, now time.Time) string {
	atMidnight := now.Equal(activity.StartOfDay(now))
	zoneName, offset := now.Zone()
	return fmt.Sprintf(
		"stats:%s:%s:%s:%s%+d:%t:%016x",
		window, metric, activity.DayKey(now), zoneName, offset, atMidnight, entriesFingerprint(entries),
	)
}

func entriesFingerprint(entries []activity.HistoryEntry) uint64 {
	d := xxhash.New()
	for _, e := range entries {
		_, _ = d.WriteString(e.ID)
		_, _ = d.WriteString("|" + e.Date + "|" + e.StartTime + "|" + e.EndTime + "|")
		_, _ = d.WriteString(strconv.Itoa(e.Steps) + "|")
		_, _ = d.WriteString(strconv.FormatFloat(e.Distance, 'g', -1, 64) + "|")
		_, _ = d.WriteString(strconv.FormatFloat(e.Kcal, 'g', -1, 64) + "|")
		_, _ = d.WriteString(e.UserName + "\n")
	}
	return d.Sum64()
}

func (s *Service) cachedStats(ctx context.Context, key string) (*activity.StatsResult, bool) {
	if s.statsCache == nil {
		return nil, false
	}

	raw, found := s.statsCache.Get(ctx, key)
	if !found {
		s.metricsManager.CounterCacheRequests.WithLabelValues("miss").Inc()
		return nil, false
	}

	var res activity.StatsResult
	if err := json.Unmarshal(raw, &res); err != nil {
		log.Errorf("unmarshal cached stats [%s]: %s", key, err)
		s.metricsManager.CounterCacheRequests.WithLabelValues("miss").Inc()
		return nil, false
	}

	s.metricsManager.CounterCacheRequests.WithLabelValues("hit").Inc()
	return &res, true
}

func (s *Service) cacheStats(ctx context.Context, key string, res activity.StatsResult) {
	if s.statsCache == nil {
		return
	}

	raw, err := json.Marshal(res)
	if err != nil {
		log.Errorf("marshal stats [%s]: %s", key, err)
		return
	}
	if !s.statsCache.Set(ctx, key, raw, s.cacheTTL) {
		log.Warnf("stats not cached [%s]", key)
	}
}
