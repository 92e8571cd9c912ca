package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/guard/core/sanitizer"
)

func (c *cli) sanitizeCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "sanitize [text...]",
		Short: "Escape or strip markup from text or JSON",
		Long: `Sanitize text read from the arguments or stdin.

Modes:
  markup  escape & < > " ' / as HTML entities
  search  strip markup characters, collapse whitespace, cap at 100 units
  json    parse stdin as JSON and escape every string value`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			switch mode {
			case "markup":
				_, err = fmt.Fprintln(out, sanitizer.Markup(input))
			case "search":
				_, err = fmt.Fprintln(out, sanitizer.SearchTerm(input))
			case "json":
				err = sanitizeJSON(out, input)
			default:
				return fmt.Errorf("unknown mode %q", mode)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", "markup", "markup, search or json")
	return cmd
}

func sanitizeJSON(out io.Writer, input string) error {
	dec := json.NewDecoder(bytes.NewBufferString(input))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("parse json: %w", err)
	}

	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(sanitizer.Body(v))
}
