package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"quiz-admin/internal/backend"
)

func promptYesNo(reader *bufio.Reader, out io.Writer, prompt string) (bool, error) {
	for {
		fmt.Fprint(out, prompt)
		line, err := reader.ReadString('\n')
		if err != nil {
			return false, err
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		switch answer {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		default:
			fmt.Fprintln(out, "Please answer yes or no.")
		}
	}
}

func describeClientError(err error, serverURL string) error {
	if errors.Is(err, backend.ErrServiceUnavailable) {
		return fmt.Errorf("quiz backend unavailable at %s", serverURL)
	}
	return err
}

// splitCommand separates the first word of line from the rest.
func splitCommand(line string) (string, string) {
	line = strings.TrimSpace(line)
	name, rest, _ := strings.Cut(line, " ")
	return strings.ToLower(name), strings.TrimSpace(rest)
}

// intArgs parses the first n whitespace-separated integers of rest and returns the remainder.
func intArgs(rest string, n int) ([]int, string, error) {
	values := make([]int, 0, n)
	for i := 0; i < n; i++ {
		var word string
		word, rest, _ = strings.Cut(strings.TrimSpace(rest), " ")
		v, err := strconv.Atoi(word)
		if err != nil {
			return nil, "", fmt.Errorf("expected a number, got %q", word)
		}
		values = append(values, v)
	}
	return values, strings.TrimSpace(rest), nil
}
