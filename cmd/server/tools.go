package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"bitbucket-mcp/server/internal/modules"
	"bitbucket-mcp/server/internal/modules/bitbucket"
)

func buildToolsCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Print the tool catalog",
		Long:  "Prints every tool with its input schema. No credentials are needed.",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			// Handlers are never called here, so the module needs no client.
			registry, err := modules.NewRegistry(bitbucket.New(&bitbucket.Env{}))
			if err != nil {
				return err
			}
			return printTools(command.OutOrStdout(), registry.Tools(), format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json, or yaml")
	return cmd
}

func printTools(w io.Writer, tools []modules.Tool, format string) error {
	switch format {
	case "json":
		out, err := modules.ToJSON(tools)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, out)
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tools); err != nil {
			return errors.Wrap(err, "encode yaml")
		}
		return enc.Close()
	case "text":
		printToolsText(w, tools)
		return nil
	}
	return errors.Errorf("unknown format %q (want text, json, or yaml)", format)
}

func printToolsText(w io.Writer, tools []modules.Tool) {
	name := color.New(color.FgCyan, color.Bold)
	hint := color.New(color.FgYellow)
	faint := color.New(color.Faint)

	for i, t := range tools {
		if i > 0 {
			fmt.Fprintln(w)
		}
		name.Fprint(w, t.Name)
		if t.Annotations != nil && t.Annotations.ReadOnlyHint != nil && *t.Annotations.ReadOnlyHint {
			hint.Fprint(w, " [read-only]")
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s\n", t.Description)

		required := make(map[string]bool, len(t.InputSchema.Required))
		for _, r := range t.InputSchema.Required {
			required[r] = true
		}
		params := make([]string, 0, len(t.InputSchema.Properties))
		for p := range t.InputSchema.Properties {
			params = append(params, p)
		}
		sort.Strings(params)
		for _, p := range params {
			prop := t.InputSchema.Properties[p]
			marker := ""
			if required[p] {
				marker = " (required)"
			}
			fmt.Fprintf(w, "  - %s: %s%s", p, prop.Type, marker)
			if len(prop.Enum) > 0 {
				faint.Fprintf(w, " one of %s", strings.Join(prop.Enum, "|"))
			}
			fmt.Fprintln(w)
		}
	}
}
