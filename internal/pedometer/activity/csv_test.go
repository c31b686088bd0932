package activity_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/2beens/pedometer/internal/pedometer/activity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCSV(t *testing.T) {
	now := time.Date(2025, 7, 2, 18, 0, 0, 0, time.UTC)
	entries := append(sampleEntries(),
		activity.HistoryEntry{Date: "2025-07-02", StartTime: "07:00:00", EndTime: "07:45:00", Steps: 6000, Distance: 4200.5, Kcal: 264.6315, UserName: "hanako"},
		activity.HistoryEntry{Date: "2025-01-01", Steps: 1, UserName: "old"},
	)

	expected := activity.CSVHeader + "\n" +
		"2025-07-02,07:00:00,07:45:00,6000,4200.5,264.6315,hanako\n" +
		"2025-07-01,09:00:00,09:30:00,3000,2000,21,taro\n" +
		"2025-07-01,17:10:00,17:20:00,1000,500,5.25,taro\n"
	assert.Equal(t, expected, activity.ToCSV(entries, activity.WindowWeek, now))
}

func TestToCSV_HeaderOnly(t *testing.T) {
	now := time.Date(2025, 7, 2, 18, 0, 0, 0, time.UTC)
	out := activity.ToCSV(nil, activity.WindowYear, now)
	assert.Equal(t, "日付,開始時間,終了時間,歩数,距離(km),カロリー(kcal),ユーザー名\n", out)
}

func TestToCSV_NoEscaping(t *testing.T) {
	now := time.Date(2025, 7, 2, 18, 0, 0, 0, time.UTC)
	entries := []activity.HistoryEntry{{Date: "2025-07-02", Steps: 1, UserName: "Doe, John"}}

	lines := strings.Split(strings.TrimSuffix(activity.ToCSV(entries, activity.WindowWeek, now), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "2025-07-02,,,1,0,0,Doe, John", lines[1])
	assert.Len(t, strings.Split(lines[1], ","), 8)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriteCSV(t *testing.T) {
	now := time.Date(2025, 7, 1, 18, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	require.NoError(t, activity.WriteCSV(&buf, sampleEntries(), activity.WindowWeek, now))
	assert.Equal(t, activity.ToCSV(sampleEntries(), activity.WindowWeek, now), buf.String())

	assert.EqualError(t, activity.WriteCSV(failingWriter{}, sampleEntries(), activity.WindowWeek, now), "disk full")
}
