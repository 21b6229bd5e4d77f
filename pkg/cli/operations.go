package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/getmockd/ewsparse/pkg/cli/internal/output"
	"github.com/getmockd/ewsparse/pkg/ews"
)

var operationsJSON bool

var operationsCmd = &cobra.Command{
	Use:     "operations",
	Aliases: []string{"ops"},
	Short:   "List supported operations and how they are decoded",
	Example: `  ewsparse operations
  ewsparse operations --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOperations(ews.DefaultRegistry(), operationsJSON, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(operationsCmd)
	operationsCmd.Flags().BoolVar(&operationsJSON, "json", false, "Output in JSON format")
}

// operationInfo describes the rule of one operation.
type operationInfo struct {
	Name  string `json:"name"`
	Gate  string `json:"gate"`
	Shape string `json:"shape"`
	Path  string `json:"path,omitempty"`
}

func runOperations(reg *ews.Registry, asJSON bool, w io.Writer) error {
	infos := make([]operationInfo, 0, len(reg.Operations()))
	for _, op := range ews.Operations() {
		rule, ok := reg.Lookup(op)
		if !ok {
			continue
		}
		info := describeRule(rule)
		info.Name = op.String()
		infos = append(infos, info)
	}

	if asJSON {
		return output.JSON(w, true, infos)
	}

	title := cases.Title(language.English)
	tw := output.Table(w)
	fmt.Fprintln(tw, "OPERATION\tGATE\tSHAPE\tPATH")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", info.Name, title.String(info.Gate), info.Shape, info.Path)
	}
	return tw.Flush()
}

// describeRule summarises a rule for display.
func describeRule(rule ews.Rule) operationInfo {
	switch r := rule.(type) {
	case ews.Gated:
		info := describeRule(r.Rule)
		info.Gate = r.Gate.String()
		return info
	case ews.NoItems:
		return operationInfo{Gate: ews.GateNone.String(), Shape: "none"}
	case ews.SingleRule:
		return operationInfo{Gate: ews.GateNone.String(), Shape: "single", Path: r.Path}
	case ews.ListRule:
		shape := "list"
		switch r.Pick {
		case ews.PickFirst:
			shape = "first"
		case ews.PickLast:
			shape = "last"
		}
		return operationInfo{Gate: ews.GateNone.String(), Shape: shape, Path: r.Path}
	case ews.MergedRecordRule:
		return operationInfo{Gate: ews.GateNone.String(), Shape: "merged record", Path: strings.Join(r.Paths, " + ")}
	case ews.MergeJoinRule:
		return operationInfo{Gate: ews.GateNone.String(), Shape: "merge join", Path: r.Path + " (" + r.Primary + " + " + r.Secondary + ")"}
	case ews.MetadataListRule:
		path := ""
		switch s := r.Records.(type) {
		case ews.PathSelector:
			path = string(s)
		case ews.ChildrenExcept:
			path = s.Parent + "/*"
		}
		return operationInfo{Gate: ews.GateNone.String(), Shape: "metadata list", Path: path}
	default:
		return operationInfo{Gate: ews.GateNone.String(), Shape: fmt.Sprintf("%T", rule)}
	}
}
