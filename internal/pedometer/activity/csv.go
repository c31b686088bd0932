package activity

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"
)

// CSVHeader is the fixed export header.
const CSVHeader = "日付,開始時間,終了時間,歩数,距離(km),カロリー(kcal),ユーザー名"

// WriteCSV writes the entries of the window, newest date first.
// Fields are written verbatim: values containing commas are not quoted.
func WriteCSV(w io.Writer, entries []HistoryEntry, window Window, now time.Time) error {
	rows := FilterByPeriod(entries, window, now)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date > rows[j].Date
	})

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(CSVHeader + "\n"); err != nil {
		return err
	}
	for _, e := range rows {
		if _, err := bw.WriteString(csvRow(e) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func ToCSV(entries []HistoryEntry, window Window, now time.Time) string {
	var sb strings.Builder
	// strings.Builder never fails to write
	_ = WriteCSV(&sb, entries, window, now)
	return sb.String()
}

func csvRow(e HistoryEntry) string {
	return strings.Join([]string{
		e.Date,
		e.StartTime,
		e.EndTime,
		strconv.Itoa(e.Steps),
		formatFloat(e.Distance),
		formatFloat(e.Kcal),
		e.UserName,
	}, ",")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
