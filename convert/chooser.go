package convert

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Chooser resolves an interactive choice among options, returning the
// chosen index. It's an injected collaborator rather than a direct prompt
// call so the driver stays testable: production code wires StdinChooser,
// tests inject a scripted stub.
type Chooser interface {
	Choose(prompt string, options []string) (int, error)
}

// StdinChooser reads a 1-based option number from an io.Reader, typically
// os.Stdin.
type StdinChooser struct {
	In *bufio.Reader
}

// Choose prints prompt and the options, numbered from 1, to standard error,
// then parses the response line into the chosen option's 0-based index.
func (c StdinChooser) Choose(prompt string, options []string) (int, error) {
	fmt.Fprintln(os.Stderr, prompt)
	for i, option := range options {
		fmt.Fprintf(os.Stderr, "  %d) %s\n", i+1, option)
	}
	line, err := c.In.ReadString('\n')
	if err != nil {
		return 0, errors.Wrap(err, "chooser: reading response")
	}
	line = strings.TrimSpace(line)
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(options) {
		return 0, errors.Errorf("chooser: %q is not a valid choice 1-%d", line, len(options))
	}
	return n - 1, nil
}
