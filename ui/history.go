package ui

import (
	"fmt"
	"io"
	"peer-chat/domain"
	"peer-chat/observability"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

// RenderHistory prints the whole timeline as a table, oldest first.
func RenderHistory(w io.Writer, messages []domain.ChatMessage) {
	table := newTable(w)
	table.SetHeader([]string{"#", "Time", "Direction", "From", "Text"})
	for i, message := range messages {
		table.Append([]string{
			fmt.Sprintf("%d", i+1),
			message.Clock(),
			lo.Ternary(message.SentByLocalUser, "sent", "received"),
			message.Sender,
			message.Text,
		})
	}
	table.Render()
	_, _ = fmt.Fprintf(w, "%d sent, %d received\n",
		lo.CountBy(messages, func(m domain.ChatMessage) bool { return m.SentByLocalUser }),
		lo.CountBy(messages, func(m domain.ChatMessage) bool { return !m.SentByLocalUser }),
	)
}

// RenderStats prints the session counters.
func RenderStats(w io.Writer, stats observability.SessionStats) {
	table := newTable(w)
	table.SetHeader([]string{"Counter", "Value"})
	table.AppendBulk([][]string{
		{"sent", fmt.Sprintf("%d", stats.Sent)},
		{"received", fmt.Sprintf("%d", stats.Received)},
		{"send failures", fmt.Sprintf("%d", stats.SendFailures)},
		{"listener failures", fmt.Sprintf("%d", stats.ListenerFailures)},
		{"connections", fmt.Sprintf("%d", stats.Connections)},
		{"uptime", time.Since(stats.StartedAt).Truncate(time.Second).String()},
	})
	table.Render()
}

func newTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}
