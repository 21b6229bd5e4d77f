package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/getmockd/ewsparse/pkg/cli/internal/output"
	"github.com/getmockd/ewsparse/pkg/ews"
)

var statusFormat string

var statusCmd = &cobra.Command{
	Use:   "status [files...]",
	Short: "Show the response status and any SOAP fault",
	Long: `Show the status of EWS responses without running an extraction rule.

For each input the SOAP version, the ResponseClass, ResponseCode and
MessageText of the first response message, and the SOAP fault (if any)
are printed.`,
	Example: `  # Check why a request failed
  ewsparse status response.xml

  # Status of every capture as YAML
  ewsparse status --format yaml 'captures/**/*.xml'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := globals
		opts.Format = statusFormat
		return runStatus(opts, args, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().StringVarP(&statusFormat, "format", "f", "", "Output format: json or yaml")
}

// statusResult is the printed status of one input.
type statusResult struct {
	Source      string      `json:"source" yaml:"source"`
	SOAPVersion string      `json:"soapVersion,omitempty" yaml:"soapVersion,omitempty"`
	Status      *ews.Status `json:"status,omitempty" yaml:"status,omitempty"`
	Fault       *ews.Fault  `json:"fault,omitempty" yaml:"fault,omitempty"`
	Error       string      `json:"error,omitempty" yaml:"error,omitempty"`
}

func runStatus(opts globalOptions, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	sources, err := expandInputs(args)
	if err != nil {
		return err
	}

	sess, err := newSession(opts, stderr)
	if err != nil {
		return err
	}
	defer func() { _ = sess.close() }()

	ns := sess.parser.Namespaces()
	results := make([]statusResult, 0, len(sources))
	var failed int
	for _, source := range sources {
		in, err := readInput(source, stdin)
		if err != nil {
			return err
		}
		r := inspectStatus(in, ns)
		if r.Error != "" {
			failed++
			sess.log.Debug("unreadable response", "source", source, "error", r.Error)
		}
		results = append(results, r)
	}

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

func inspectStatus(in input, ns ews.Namespaces) statusResult {
	result := statusResult{Source: in.Source}

	doc, err := ews.ReadDocument(in.Body)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.SOAPVersion = ews.DetectSOAPVersion(doc)

	status, err := ews.DecodeStatus(doc, ns)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Status = &status

	fault, err := ews.FindFault(ews.NewQuery(doc, ns))
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Fault = fault
	return result
}
