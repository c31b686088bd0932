package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/2beens/pedometer/internal/pedometer/activity"
	"github.com/2beens/pedometer/internal/pedometer/service"
)

const barWidth = 20

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// displayValue converts a metric value to its presentation unit (distance in km).
func displayValue(m activity.Metric, v float64) string {
	switch m {
	case activity.MetricSteps:
		return strconv.Itoa(int(v))
	case activity.MetricDistance:
		return strconv.FormatFloat(v/1000, 'f', 2, 64)
	default:
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
}

func progressBar(ratio float64) string {
	filled := int(ratio * barWidth)
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled) + "]"
}

func renderHistory(w io.Writer, entries []activity.HistoryEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No sessions recorded")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "DATE\tSTART\tEND\tSTEPS\tDISTANCE (m)\tKCAL")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n", e.Date, e.StartTime, e.EndTime, e.Steps, formatNumber(e.Distance), formatNumber(e.Kcal))
	}
	return tw.Flush()
}

func renderGoals(w io.Writer, goals []activity.Goal) error {
	if len(goals) == 0 {
		_, err := fmt.Fprintln(w, "No goals configured")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tMETRIC\tPERIOD\tTARGET\tACTIVE\tCREATED")
	for _, g := range goals {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s %s\t%t\t%s\n",
			g.ID, g.Metric, g.Period, displayValue(g.Metric, g.TargetValue), g.Metric.Unit(),
			g.IsActive, g.CreatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func renderProgress(w io.Writer, overview []service.GoalProgress) error {
	if len(overview) == 0 {
		_, err := fmt.Fprintln(w, "No active goals")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tGOAL\tCURRENT\tREMAINING\tPROGRESS")
	for _, p := range overview {
		m := p.Goal.Metric
		fmt.Fprintf(tw, "%s\t%s %s %s\t%s\t%s\t%s %3.0f%%\n",
			p.Goal.ID, p.Goal.Period, displayValue(m, p.Goal.TargetValue), p.Unit,
			displayValue(m, p.Current), displayValue(m, p.Remaining),
			progressBar(p.Progress), p.Progress*100)
	}
	return tw.Flush()
}

func renderGoalDetail(w io.Writer, d *service.GoalDetail) error {
	m := d.Goal.Metric
	fmt.Fprintf(w, "Goal: %s %s %s (%s)\n", d.Goal.Period, displayValue(m, d.Goal.TargetValue), d.Unit, d.Goal.ID)
	fmt.Fprintf(w, "Current: %s %s, remaining %s %s\n", displayValue(m, d.Current), d.Unit, displayValue(m, d.Remaining), d.Unit)
	fmt.Fprintf(w, "Progress: %s %.0f%%\n", progressBar(d.Progress), d.Progress*100)
	fmt.Fprintf(w, "Daily target: %s %s\n\n", displayValue(m, d.DailyTarget), d.Unit)

	if err := renderChart(w, d.Series, d.SeriesMax, m); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return renderHistory(w, d.RelevantEntries)
}

func renderChart(w io.Writer, series []activity.ChartPoint, maxValue float64, m activity.Metric) error {
	tw := newTable(w)
	for _, p := range series {
		filled := 0
		if maxValue > 0 {
			filled = int(p.Value / maxValue * barWidth)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Label, strings.Repeat("#", filled), displayValue(m, p.Value))
	}
	return tw.Flush()
}

func renderStats(w io.Writer, res *activity.StatsResult) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "Window:\t%s (%d days, %d with data)\n", res.Window, res.Window.Days(), res.DaysWithData)
	fmt.Fprintln(tw, "\tTOTAL\tAVG/DAY\tMAX/DAY")
	fmt.Fprintf(tw, "Steps\t%d\t%d\t%d\n", res.TotalSteps, res.AverageStepsPerDay, res.MaxStepsInOneDay)
	fmt.Fprintf(tw, "Distance (km)\t%s\t%s\t%s\n",
		displayValue(activity.MetricDistance, res.TotalDistance),
		displayValue(activity.MetricDistance, res.AverageDistancePerDay),
		displayValue(activity.MetricDistance, res.MaxDistanceInOneDay))
	fmt.Fprintf(tw, "Calories (kcal)\t%s\t%s\t%s\n",
		displayValue(activity.MetricCalories, res.TotalCalories),
		displayValue(activity.MetricCalories, res.AverageCaloriesPerDay),
		displayValue(activity.MetricCalories, res.MaxCaloriesInOneDay))
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(res.ChartSeries) == 0 {
		return nil
	}
	fmt.Fprintf(w, "\n%s per day\n", res.Metric)
	return renderChart(w, res.ChartSeries, activity.MaxValue(res.ChartSeries), res.Metric)
}
