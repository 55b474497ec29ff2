package cmds

import (
	"context"
	"io"

	jsonfmt "github.com/go-go-golems/glazed/pkg/formatters/json"
	tablefmt "github.com/go-go-golems/glazed/pkg/formatters/table"
	yamlfmt "github.com/go-go-golems/glazed/pkg/formatters/yaml"
	"github.com/go-go-golems/glazed/pkg/middlewares"
	"github.com/go-go-golems/glazed/pkg/middlewares/table"
	"github.com/go-go-golems/glazed/pkg/types"
	"github.com/go-go-golems/statekit/pkg/state"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
	outputNone  = "none"
)

func addOutputFlag(fs *pflag.FlagSet, target *string, def string) {
	fs.StringVarP(target, "output", "o", def, "output format: table, json, yaml or none")
}

// newProcessor returns a glazed table processor that renders the rows added
// to it to w in format once closed.
func newProcessor(format string, w io.Writer) (*middlewares.TableProcessor, error) {
	gp := middlewares.NewTableProcessor()
	switch format {
	case outputTable, "":
		gp.AddTableMiddleware(table.NewOutputMiddleware(tablefmt.NewOutputFormatter("ascii"), w))
	case outputJSON:
		gp.AddTableMiddleware(table.NewOutputMiddleware(jsonfmt.NewOutputFormatter(), w))
	case outputYAML:
		gp.AddTableMiddleware(table.NewOutputMiddleware(yamlfmt.NewOutputFormatter(), w))
	default:
		return nil, errors.Errorf("unknown output format %q", format)
	}
	return gp, nil
}

// writeRows renders rows through a processor for format. The none format
// writes nothing.
func writeRows(ctx context.Context, w io.Writer, format string, rows ...types.Row) error {
	if format == outputNone {
		return nil
	}
	gp, err := newProcessor(format, w)
	if err != nil {
		return err
	}
	for _, r := range rows {
		if err := gp.AddRow(ctx, r); err != nil {
			return errors.Wrap(err, "add row")
		}
	}
	if err := gp.Close(ctx); err != nil {
		return errors.Wrap(err, "render output")
	}
	return nil
}

func stateRow(s *state.AppState) types.Row {
	return types.NewRow(
		types.MRP("theme", string(s.Theme)),
		types.MRP("counter", s.Counter),
		types.MRP("todos", s.Todos),
		types.MRP("completed", s.CompletedCount()),
	)
}

func kindRows() []types.Row {
	kinds := state.Kinds()
	rows := make([]types.Row, 0, len(kinds))
	for _, k := range kinds {
		rows = append(rows, types.NewRow(
			types.MRP("kind", k),
			types.MRP("doc", state.KindDoc(k)),
		))
	}
	return rows
}
