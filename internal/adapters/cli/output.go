package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/andrescamacho/bizsim-go/internal/domain/operations"
	"github.com/andrescamacho/bizsim-go/internal/domain/staff"
	"github.com/andrescamacho/bizsim-go/internal/domain/workorder"
)

func newTable(title string, header ...interface{}) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleLight)
	if title != "" {
		tw.SetTitle(title)
	}
	tw.AppendHeader(table.Row(header))
	return tw
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func percent(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

func renderOrders(title string, orders []workorder.Snapshot) {
	tw := newTable(title, "ID", "Name", "Type", "Priority", "Status", "Worker", "Deadline")
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 4, Transformer: priorityColor}})
	for _, o := range orders {
		tw.AppendRow(table.Row{
			o.ID, o.Name, o.Type, o.Priority, o.Status,
			dash(o.AssignedWorker), o.Deadline.Format("Jan 2 15:04"),
		})
	}
	if len(orders) == 0 {
		tw.AppendRow(table.Row{"-", "no work orders", "", "", "", "", ""})
	}
	tw.Render()
}

func renderRoster(title string, roster []staff.Snapshot) {
	tw := newTable(title, "ID", "Name", "Role", "Level", "Shift", "State", "Task", "Fatigue", "Morale")
	for _, w := range roster {
		task := "-"
		if w.Task != nil {
			task = fmt.Sprintf("%s (%.0f%%)", w.Task.ID, w.Progress*100)
		}
		tw.AppendRow(table.Row{
			w.ID, w.Name, w.Role, w.Level, w.Shift, w.State, task,
			fmt.Sprintf("%.0f", w.Fatigue), fmt.Sprintf("%.0f", w.Morale),
		})
	}
	tw.Render()
}

func renderEvents(title string, events []operations.Snapshot) {
	tw := newTable(title, "ID", "Name", "Severity", "Target", "Ends", "Action")
	for _, e := range events {
		ends := e.EndTime.Format("Jan 2 15:04")
		if e.Permanent {
			ends = "until resolved"
		}
		action := "-"
		if e.RequiresAction {
			action = e.ActionDescription
		}
		tw.AppendRow(table.Row{e.ID, e.Name, e.Severity, dash(e.Target), ends, action})
	}
	tw.Render()
}

func priorityColor(val interface{}) string {
	p, ok := val.(workorder.Priority)
	if !ok {
		return fmt.Sprint(val)
	}
	switch {
	case p >= workorder.PriorityCritical:
		return text.Colors{text.FgHiRed, text.Bold}.Sprint(p.String())
	case p >= workorder.PriorityUrgent:
		return text.FgRed.Sprint(p.String())
	case p >= workorder.PriorityHigh:
		return text.FgYellow.Sprint(p.String())
	default:
		return p.String()
	}
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
