package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mfreeman451/meshmon/pkg/models"
)

const (
	emptyCell  = "-"
	timeLayout = "2006-01-02 15:04:05"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	borderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	criticalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// writeJSON prints v indented, for --json.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

// renderTable draws rows under headers with a rounded border.
func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			return cellStyle
		})

	return t.String()
}

func percent(v *float64) string {
	if v == nil {
		return emptyCell
	}

	return strconv.FormatFloat(*v, 'f', 1, 64) + "%"
}

func uptime(v *int64) string {
	if v == nil {
		return emptyCell
	}

	return (time.Duration(*v) * time.Second).String()
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return emptyCell
	}

	return t.Local().Format(timeLayout)
}

func nodeStatus(s models.NodeStatus) string {
	if s == models.NodeOnline {
		return okStyle.Render(string(s))
	}

	return criticalStyle.Render(string(s))
}

func severity(s models.Severity) string {
	switch s {
	case models.SeverityCritical:
		return criticalStyle.Render(string(s))
	case models.SeverityWarning:
		return warningStyle.Render(string(s))
	case models.SeverityInfo:
		return string(s)
	}

	return string(s)
}

func nodesTable(nodes []models.NodeOverview) string {
	rows := make([][]string, 0, len(nodes))

	for _, n := range nodes {
		row := []string{n.Hostname, n.IP, n.Type, nodeStatus(n.Status), stamp(n.LastSeen)}

		if n.Metrics != nil {
			row = append(row,
				percent(n.Metrics.CPUPercent),
				percent(n.Metrics.MemoryPercent),
				percent(n.Metrics.DiskPercent),
				uptime(n.Metrics.UptimeSeconds))
		} else {
			row = append(row, emptyCell, emptyCell, emptyCell, emptyCell)
		}

		rows = append(rows, row)
	}

	return renderTable(
		[]string{"HOSTNAME", "IP", "TYPE", "STATUS", "LAST SEEN", "CPU", "MEMORY", "DISK", "UPTIME"},
		rows)
}

func alertsTable(alerts []models.Alert) string {
	rows := make([][]string, 0, len(alerts))

	for i := range alerts {
		a := &alerts[i]

		resolvedAt := emptyCell
		if a.ResolvedAt != nil {
			resolvedAt = stamp(*a.ResolvedAt)
		}

		rows = append(rows, []string{
			strconv.FormatInt(a.ID, 10),
			stamp(a.Timestamp),
			a.Hostname,
			severity(a.Severity),
			string(a.Type),
			a.Message,
			resolvedAt,
		})
	}

	return renderTable(
		[]string{"ID", "TIME", "HOSTNAME", "SEVERITY", "TYPE", "MESSAGE", "RESOLVED"},
		rows)
}

func targetsTable(targets []models.Target) string {
	rows := make([][]string, 0, len(targets))

	for _, t := range targets {
		rows = append(rows, []string{t.Hostname, t.IP, t.Type, string(t.Source)})
	}

	return renderTable([]string{"HOSTNAME", "IP", "TYPE", "SOURCE"}, rows)
}

func summaryText(sum *models.Summary) string {
	return fmt.Sprintf("Nodes:  %d total, %s, %s\nAlerts: %s, %s\n",
		sum.TotalNodes,
		okStyle.Render(fmt.Sprintf("%d online", sum.OnlineNodes)),
		criticalStyle.Render(fmt.Sprintf("%d offline", sum.OfflineNodes)),
		criticalStyle.Render(fmt.Sprintf("%d critical", sum.CriticalAlerts)),
		warningStyle.Render(fmt.Sprintf("%d warning", sum.WarningAlerts)))
}
