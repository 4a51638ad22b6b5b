package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/fluent/pkg/syntax"
)

type palette struct {
	err  *color.Color
	warn *color.Color
	pos  *color.Color
	dim  *color.Color
	id   *color.Color
}

func newPalette(cmd *cobra.Command) (*palette, error) {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return nil, err
	}

	p := &palette{
		err:  color.New(color.FgRed, color.Bold),
		warn: color.New(color.FgYellow, color.Bold),
		pos:  color.New(color.Bold),
		dim:  color.New(color.Faint),
		id:   color.New(color.FgCyan),
	}
	all := []*color.Color{p.err, p.warn, p.pos, p.dim, p.id}

	switch mode {
	case "auto":
	case "on":
		for _, c := range all {
			c.EnableColor()
		}
	case "off":
		for _, c := range all {
			c.DisableColor()
		}
	default:
		return nil, fmt.Errorf("invalid --color value %q (want auto|on|off)", mode)
	}
	return p, nil
}

// syntaxError prints a parse diagnostic as "path:line:col: error: message"
// followed by the first line of the discarded source.
func (p *palette) syntaxError(w io.Writer, path string, err error) {
	var se *syntax.Error
	if !errors.As(err, &se) {
		fmt.Fprintf(w, "%s: %s %s\n", p.pos.Sprint(path), p.err.Sprint("error:"), err)
		return
	}

	fmt.Fprintf(w, "%s %s %s\n",
		p.pos.Sprintf("%s:%d:%d:", path, se.Line, se.Column),
		p.err.Sprint("error:"),
		se.Message,
	)
	if se.Snippet != "" {
		line, _, _ := strings.Cut(se.Snippet, "\n")
		fmt.Fprintf(w, "    %s\n", p.dim.Sprint(line))
	}
}

// diagnostic prints a formatting diagnostic for a message.
func (p *palette) diagnostic(w io.Writer, id string, err error) {
	fmt.Fprintf(w, "%s %s %s\n", p.id.Sprint(id+":"), p.warn.Sprint("warning:"), err)
}
