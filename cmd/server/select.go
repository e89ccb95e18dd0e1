package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/iancoleman/orderedmap"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"shschool-data/internal/selectable"
)

func newMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List the registered select methods",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			return writeMethods(cmd.OutOrStdout(), a.registry.Methods())
		},
	}
}

func writeMethods(w io.Writer, methods []selectable.MethodInfo) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, m := range methods {
		fmt.Fprintf(tw, "%s\t%s\n", m.Category, m.Name)
	}
	return tw.Flush()
}

func newSelectCmd() *cobra.Command {
	var output, file string

	cmd := &cobra.Command{
		Use:   "select <method>",
		Short: "Run one select method and print its rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			rows, err := a.registry.Invoke(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if file != "" {
				f, err := os.Create(file)
				if err != nil {
					return errors.Wrap(err, "create output file")
				}
				defer f.Close()
				w = f
			}
			return writeRows(w, output, rows)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format: json, yaml or xlsx")
	cmd.Flags().StringVar(&file, "file", "", "Write to this file instead of stdout")
	return cmd
}

func writeRows(w io.Writer, format string, rows []*orderedmap.OrderedMap) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "yaml":
		node, err := rowsNode(rows)
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(node); err != nil {
			return errors.Wrap(err, "encode yaml")
		}
		return enc.Close()
	case "xlsx":
		return selectable.WriteXLSX(w, rows)
	default:
		return errors.Errorf("unknown output format %q", format)
	}
}

// rowsNode builds a yaml sequence that keeps each row's key order.
func rowsNode(rows []*orderedmap.OrderedMap) (*yaml.Node, error) {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range rows {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for _, k := range row.Keys() {
			v, _ := row.Get(k)
			val := &yaml.Node{}
			if err := val.Encode(v); err != nil {
				return nil, errors.Wrapf(err, "encode %s", k)
			}
			m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: k}, val)
		}
		seq.Content = append(seq.Content, m)
	}
	return seq, nil
}
