package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// ErrParseFailed signals that a parse diagnostic was already printed; the
// caller maps it to a failing exit code without logging it again.
var ErrParseFailed = errors.New("document failed to parse")

// readInput returns the input name and contents: the named file when an
// argument is given, stdin otherwise.
func readInput(cmd *cobra.Command, args []string) (string, []byte, error) {
	if len(args) > 0 {
		data, err := readFile(args[0])
		if err != nil {
			return "", nil, err
		}
		return args[0], data, nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", nil, fmt.Errorf("read stdin: %w", err)
	}
	return "(stdin)", data, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
