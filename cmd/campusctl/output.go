package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/campus-hub/grading-system/internal/domain/shared"
)

// printer writes aligned tables, or indented JSON when asked.
type printer struct {
	w     io.Writer
	tw    *tabwriter.Writer
	notes []string
}

func newPrinter(w io.Writer, asJSON bool) *printer {
	p := &printer{w: w}
	if !asJSON {
		p.tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	}
	return p
}

func (p *printer) json(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *printer) row(cols ...any) {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprint(c)
	}
	fmt.Fprintln(p.tw, strings.Join(parts, "\t"))
}

func (p *printer) footer(format string, args ...any) {
	p.notes = append(p.notes, fmt.Sprintf(format, args...))
}

func (p *printer) warnings(ws []shared.Warning) {
	for _, w := range ws {
		p.notes = append(p.notes, fmt.Sprintf("warning [%s]: %s", w.Code, w.Message))
	}
}

func (p *printer) flush() error {
	if err := p.tw.Flush(); err != nil {
		return err
	}
	if len(p.notes) > 0 {
		fmt.Fprintln(p.w)
	}
	for _, n := range p.notes {
		fmt.Fprintln(p.w, n)
	}
	return nil
}
