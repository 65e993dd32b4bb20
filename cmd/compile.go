package cmd

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kubev2v/restquery/internal/config"
	"github.com/kubev2v/restquery/internal/registry"
	"github.com/kubev2v/restquery/internal/store"
	"github.com/kubev2v/restquery/pkg/query"
)

var (
	titleColor = color.New(color.FgCyan, color.Bold)
	argsColor  = color.New(color.FgYellow)
)

// NewCompileCommand prints the SQL a request would run without touching a
// database. Parameters are given as key=value pairs, repeated keys included.
func NewCompileCommand(cfg *config.Configuration) *cobra.Command {
	var statistics bool

	cmd := &cobra.Command{
		Use:   "compile <entity> [key=value...]",
		Short: "Print the SQL of a list or statistics request",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bindEnvironment(cmd)

			params, err := parseParams(args[1:])
			if err != nil {
				return err
			}

			reg, err := registry.Load(cfg.Schemas.Path)
			if err != nil {
				return fmt.Errorf("loading schemas: %w", err)
			}
			schema, err := reg.Get(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if statistics {
				d, err := query.BuildAggregateQuery(schema, params, nil, nil)
				if err != nil {
					return err
				}
				if len(d.Distinct) > 0 {
					if err := printQuery(out, "count", store.CountDistinctQuery(d)); err != nil {
						return err
					}
				}
				return printQuery(out, "statistics", store.AggregateQuery(d))
			}

			d := query.BuildListQuery(schema, params)
			if err := printQuery(out, "count", store.CountQuery(d)); err != nil {
				return err
			}
			return printQuery(out, "list", store.ListQuery(d))
		},
	}

	cmd.Flags().BoolVar(&statistics, "statistics", false, "compile a statistics request instead of a list")
	registerSchemaFlags(cmd.Flags(), cfg)

	return cmd
}

func parseParams(pairs []string) (query.Params, error) {
	values := url.Values{}
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid parameter %q: expected key=value", pair)
		}
		values.Add(key, value)
	}
	return query.FromValues(values), nil
}

func printQuery(w io.Writer, title string, builder sq.SelectBuilder) error {
	sql, args, err := builder.ToSql()
	if err != nil {
		return err
	}
	_, _ = titleColor.Fprintf(w, "-- %s\n", title)
	_, _ = fmt.Fprintln(w, sql+";")
	if len(args) > 0 {
		_, _ = argsColor.Fprintf(w, "-- args: %v\n", args)
	}
	return nil
}
