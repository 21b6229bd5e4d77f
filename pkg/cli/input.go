package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/samber/lo"

	"github.com/getmockd/ewsparse/pkg/ews"
)

// stdinName is the source name used for, and the argument that selects,
// standard input.
const stdinName = "-"

// input is one response body to decode.
type input struct {
	Source string
	Body   []byte
}

// expandInputs resolves file arguments. Each argument may be a plain path or
// a doublestar pattern such as "responses/**/*.xml". No arguments, or "-",
// reads standard input.
func expandInputs(args []string) ([]string, error) {
	if len(args) == 0 {
		return []string{stdinName}, nil
	}

	var paths []string
	for _, arg := range args {
		if arg == stdinName {
			paths = append(paths, stdinName)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoInput, arg)
		}
		paths = append(paths, matches...)
	}
	return lo.Uniq(paths), nil
}

// readInput reads one source, refusing bodies larger than ews.MaxBodySize.
func readInput(source string, stdin io.Reader) (input, error) {
	var r io.Reader = stdin
	if source != stdinName {
		f, err := os.Open(source)
		if err != nil {
			return input{}, err
		}
		defer f.Close()
		r = f
	}

	body, err := io.ReadAll(io.LimitReader(r, ews.MaxBodySize+1))
	if err != nil {
		return input{}, fmt.Errorf("read %s: %w", source, err)
	}
	if len(body) > ews.MaxBodySize {
		return input{}, fmt.Errorf("%w: %s", ErrInputTooLarge, source)
	}
	return input{Source: source, Body: body}, nil
}
