// package formatter renders home screens, partitions, outputs and view state as CSV, Markdown or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/desertthunder/mympctl/internal/models"
	"github.com/desertthunder/mympctl/internal/shared"
	"github.com/desertthunder/mympctl/internal/viewstate"
)

// Output formats.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
)

// HomeToCSV converts home icons to CSV with columns: Position, Name, Type, Command, Options, Ligature, BgColor, Color, Image
func HomeToCSV(icons []models.HomeIcon) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "Name", "Type", "Command", "Options", "Ligature", "BgColor", "Color", "Image"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, icon := range icons {
		record := []string{
			strconv.Itoa(i),
			icon.Name,
			string(icon.Type()),
			string(icon.Cmd),
			strings.Join(icon.Options, "|"),
			icon.Ligature,
			icon.BgColor,
			icon.Color,
			icon.Image,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// HomeToMarkdown converts home icons to a Markdown table headed by the partition name
func HomeToMarkdown(partition string, icons []models.HomeIcon) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# Home (%s)\n\n", partition)
	fmt.Fprintf(&buf, "**Icons**: %d\n\n", len(icons))

	if len(icons) == 0 {
		return buf.Bytes(), nil
	}

	buf.WriteString("| # | Name | Type | Command | Options |\n")
	buf.WriteString("|---|------|------|---------|---------|\n")
	for i, icon := range icons {
		fmt.Fprintf(&buf, "| %d | %s | %s | %s | %s |\n",
			i, escapeCell(icon.Name), icon.Type().FriendlyName(), icon.Cmd, escapeCell(strings.Join(icon.Options, ", ")))
	}

	return buf.Bytes(), nil
}

// HomeToText converts home icons to a numbered plain text list
func HomeToText(icons []models.HomeIcon) ([]byte, error) {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)

	for i, icon := range icons {
		fmt.Fprintf(w, "%d.\t%s\t%s\t%s\t%s\n", i, icon.Name, icon.Label(), icon.Type().FriendlyName(), strings.Join(icon.Options, " "))
	}
	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("failed to write text: %w", err)
	}

	return buf.Bytes(), nil
}

// RenderHome dispatches on format.
func RenderHome(format, partition string, icons []models.HomeIcon) ([]byte, error) {
	switch format {
	case FormatCSV:
		return HomeToCSV(icons)
	case FormatMarkdown:
		return HomeToMarkdown(partition, icons)
	case FormatText, "":
		return HomeToText(icons)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", shared.ErrInvalidArgument, format)
	}
}

// FormatFromPath picks a format from a file extension, defaulting to text.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".md", ".markdown":
		return FormatMarkdown
	default:
		return FormatText
	}
}

// WriteHome renders icons into path using the format its extension implies.
func WriteHome(path, partition string, icons []models.HomeIcon) (string, error) {
	if path == "" {
		path = fmt.Sprintf("home_%s.txt", partition)
	}

	data, err := RenderHome(FormatFromPath(path), partition, icons)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return path, nil
}

// PartitionsToText lists partitions, marking the current one with an asterisk
func PartitionsToText(partitions []models.Partition, current string) []byte {
	var buf bytes.Buffer
	for _, p := range partitions {
		marker := " "
		if p.Name == current {
			marker = "*"
		}
		fmt.Fprintf(&buf, "%s %s\n", marker, p.Name)
	}
	return buf.Bytes()
}

// OutputsToText lists outputs with their state and plugin
func OutputsToText(outputs []models.Output) []byte {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	for _, o := range outputs {
		state := "off"
		if o.Enabled() {
			state = "on"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", o.ID, o.Name, state, o.Plugin)
	}
	w.Flush()
	return buf.Bytes()
}

// PointerToText describes a resolved view: its path and every field of its browsing context
func PointerToText(label string, p viewstate.Pointer) []byte {
	var buf bytes.Buffer
	if p.IsZero() {
		fmt.Fprintf(&buf, "%s: (none)\n", label)
		return buf.Bytes()
	}

	sort := p.Sort.Tag
	if p.Sort.Desc {
		sort = "-" + sort
	}

	fmt.Fprintf(&buf, "%s: %s\n", label, p.Path)
	w := tabwriter.NewWriter(&buf, 0, 4, 1, ' ', 0)
	fmt.Fprintf(w, "  offset\t%d\n", p.Offset)
	fmt.Fprintf(w, "  limit\t%d\n", p.Limit)
	fmt.Fprintf(w, "  filter\t%s\n", p.Filter)
	fmt.Fprintf(w, "  sort\t%s\n", sort)
	fmt.Fprintf(w, "  tag\t%s\n", p.Tag)
	fmt.Fprintf(w, "  search\t%s\n", p.Search)
	fmt.Fprintf(w, "  scroll\t%.0f\n", p.ScrollPos)
	w.Flush()
	return buf.Bytes()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
