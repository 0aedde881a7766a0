package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// printer writes command results in the format picked with --output.
// Structured formats print the API value itself; text output is per command.
type printer struct {
	w      io.Writer
	format string

	header lipgloss.Style
	key    lipgloss.Style
	dim    lipgloss.Style
}

func newPrinter(w io.Writer, format string) *printer {
	r := lipgloss.NewRenderer(w)
	return &printer{
		w:      w,
		format: format,
		header: r.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		key:    r.NewStyle().Bold(true),
		dim:    r.NewStyle().Faint(true),
	}
}

// emit prints v as JSON or YAML, or calls text for the text format.
func (p *printer) emit(v any, text func() error) error {
	switch p.format {
	case formatJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		return p.yaml(v)
	default:
		return text()
	}
}

// yaml goes through JSON first so field names and omitted fields match the
// API's, not the Go struct's.
func (p *printer) yaml(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}

func (p *printer) table(headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.header.PaddingRight(1)
			}
			return lipgloss.NewStyle().PaddingRight(1)
		})
	_, err := fmt.Fprintln(p.w, t.String())
	return err
}

// fields prints aligned "key: value" lines, skipping empty values.
func (p *printer) fields(pairs ...[2]string) error {
	width := 0
	for _, kv := range pairs {
		width = max(width, len(kv[0]))
	}
	for _, kv := range pairs {
		if kv[1] == "" {
			continue
		}
		if _, err := fmt.Fprintf(p.w, "%s %s\n", p.key.Width(width+1).Render(kv[0]+":"), kv[1]); err != nil {
			return err
		}
	}
	return nil
}

func (p *printer) line(format string, args ...any) error {
	_, err := fmt.Fprintf(p.w, format+"\n", args...)
	return err
}

// note prints a dimmed trailer such as the next page cursor.
func (p *printer) note(format string, args ...any) error {
	_, err := fmt.Fprintln(p.w, p.dim.Render(fmt.Sprintf(format, args...)))
	return err
}
