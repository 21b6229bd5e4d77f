package cli

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/getmockd/ewsparse/pkg/cli/internal/output"
	"github.com/getmockd/ewsparse/pkg/ews"
	"github.com/getmockd/ewsparse/pkg/query"
)

var decodeOpts decodeOptions

var decodeCmd = &cobra.Command{
	Use:   "decode [files...]",
	Short: "Decode EWS responses for an operation",
	Long: `Decode one or more EWS SOAP responses with the extraction rule of an operation.

Arguments are file paths or doublestar patterns. With no arguments, or "-",
the response is read from standard input.

--where keeps items for which an expression is true. The expression sees
item (the decoded record), kind (its root element name, empty for metadata
and merged records) and index.
--query applies a JSONPath to the kept items.`,
	Example: `  # Decode a GetItem response
  ewsparse decode --op GetItem response.xml

  # Decode every captured FindItem response as YAML
  ewsparse decode --op FindItem --format yaml 'captures/**/finditem-*.xml'

  # Only created events from a GetEvents response
  ewsparse decode --op GetEvents --where 'kind == "created_event"' events.xml

  # Subjects of all messages
  curl ... | ewsparse decode --op GetItem --query '$[*].message.subject.text'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := decodeOpts
		opts.globalOptions.ConfigPath = globals.ConfigPath
		opts.globalOptions.LogLevel = globals.LogLevel
		opts.globalOptions.LogFile = globals.LogFile
		opts.Inputs = args
		return runDecode(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().StringVarP(&decodeOpts.Operation, "op", "o", "", "EWS operation name, e.g. GetItem (required)")
	decodeCmd.Flags().StringVarP(&decodeOpts.Format, "format", "f", "", "Output format: json or yaml")
	decodeCmd.Flags().StringVarP(&decodeOpts.Where, "where", "w", "", "Keep items matching this expression")
	decodeCmd.Flags().StringVarP(&decodeOpts.Query, "query", "q", "", "JSONPath applied to the kept items")
	_ = decodeCmd.MarkFlagRequired("op")
}

// decodeOptions holds the decode command's flags and arguments.
type decodeOptions struct {
	globalOptions
	Operation string
	Where     string
	Query     string
	Inputs    []string
}

// decodeResult is the printed outcome for one input.
type decodeResult struct {
	Source      string      `json:"source" yaml:"source"`
	ID          string      `json:"id,omitempty" yaml:"id,omitempty"`
	Operation   string      `json:"operation" yaml:"operation"`
	Status      *ews.Status `json:"status,omitempty" yaml:"status,omitempty"`
	Items       any         `json:"items,omitempty" yaml:"items,omitempty"`
	Error       string      `json:"error,omitempty" yaml:"error,omitempty"`
	Resubscribe bool        `json:"resubscribe,omitempty" yaml:"resubscribe,omitempty"`
}

func runDecode(ctx context.Context, opts decodeOptions, stdin io.Reader, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	op, err := ews.ParseOperation(opts.Operation)
	if err != nil {
		return err
	}

	sel, err := query.New(opts.Where, opts.Query)
	if err != nil {
		return err
	}

	sources, err := expandInputs(opts.Inputs)
	if err != nil {
		return err
	}

	sess, err := newSession(opts.globalOptions, stderr)
	if err != nil {
		return err
	}
	defer func() { _ = sess.close() }()

	results := make([]decodeResult, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, source := range sources {
		g.Go(func() error {
			in, err := readInput(source, stdin)
			if err != nil {
				sess.log.Warn("input unreadable", "source", source, "error", err)
				results[i] = decodeResult{Source: source, Operation: op.String(), Error: err.Error()}
				return ctx.Err()
			}
			results[i] = decodeOne(ctx, sess.parser, op, sel, in)
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var failed int
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	sess.log.Info("decode finished", "operation", op.String(), "inputs", len(results), "failed", failed)

	var doc any = results
	if len(results) == 1 {
		doc = results[0]
	}
	if err := output.Encode(stdout, sess.cfg.Output.Format, sess.cfg.Output.Pretty, doc); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrDecodeFailed, failed, len(results))
	}
	return nil
}

// decodeOne decodes a single input. Decoding failures are reported in the
// result rather than returned.
func decodeOne(ctx context.Context, parser *ews.Parser, op ews.Operation, sel *query.Selector, in input) decodeResult {
	result := decodeResult{Source: in.Source, Operation: op.String()}

	resp, err := parser.ParseBytes(ctx, op, in.Body)
	if err != nil {
		result.Error = err.Error()
		result.Resubscribe = ews.IsSubscriptionExpired(err)
		if perr, ok := ews.AsProtocolError(err); ok {
			result.Status = &ews.Status{Class: ews.ResponseClassError, Code: perr.Code, Message: perr.Message}
		}
		return result
	}

	result.ID = resp.ID
	result.Status = &resp.Status

	if sel.Empty() {
		result.Items = resp.Items
		return result
	}

	var projected []any
	if resp.Items.Value != nil {
		projected, err = sel.ApplyValue(resp.Items.Value)
	} else {
		projected, err = sel.Apply(resp.Items.List)
	}
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Items = projected
	return result
}
