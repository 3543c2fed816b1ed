package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Nakul-Jaglan/thob3d-assignment/internal/models"
)

var (
	colorSuccess = lipgloss.AdaptiveColor{Light: "2", Dark: "2"}
	colorError   = lipgloss.AdaptiveColor{Light: "1", Dark: "1"}
	colorPrimary = lipgloss.AdaptiveColor{Light: "5", Dark: "5"}
	colorInfo    = lipgloss.AdaptiveColor{Light: "6", Dark: "6"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "8", Dark: "8"}

	styleSuccess = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	styleError   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	styleInfo    = lipgloss.NewStyle().Foreground(colorInfo)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	styleTitle   = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Underline(true)
	styleLabel   = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Width(13)
	styleHeader  = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Padding(0, 1)
	styleCell    = lipgloss.NewStyle().Padding(0, 1)
)

func formatSuccess(msg string) string { return styleSuccess.Render("✔ " + msg) }
func formatError(msg string) string   { return styleError.Render("✘ " + msg) }
func formatInfo(msg string) string    { return styleInfo.Render("ℹ " + msg) }
func formatMuted(msg string) string   { return styleMuted.Render(msg) }

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func formatSize(size *int64) string {
	if size == nil {
		return "-"
	}
	const unit = 1024
	n := *size
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

func assetTable(assets []models.Asset) string {
	rows := make([][]string, 0, len(assets))
	for _, a := range assets {
		rows = append(rows, []string{
			a.ID.String(),
			truncate(a.Name, 32),
			string(a.Category),
			truncate(strings.Join(a.Tags, ", "), 28),
			formatSize(a.Size),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleMuted).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			return styleCell
		}).
		Headers("ID", "NAME", "CATEGORY", "TAGS", "SIZE").
		Rows(rows...).
		String()
}

func assetDetail(a models.Asset) string {
	var b strings.Builder
	b.WriteString(styleTitle.Render(a.Name))
	b.WriteString("\n\n")
	field := func(label, value string) {
		if value == "" {
			value = formatMuted("-")
		}
		b.WriteString(styleLabel.Render(label) + value + "\n")
	}
	field("ID", a.ID.String())
	field("Owner", a.OwnerID.String())
	field("Description", a.Description)
	field("Category", string(a.Category))
	field("Format", a.Format)
	field("Size", formatSize(a.Size))
	field("Tags", strings.Join(a.Tags, ", "))
	field("URL", a.URL)
	field("Image", a.Image)
	field("Created", a.CreatedAt.Format("2006-01-02 15:04"))
	return b.String()
}
