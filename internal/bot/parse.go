package bot

import (
	"fmt"
	"strconv"
	"strings"
)

// parseEvaluateArgs tokenizes "/evaluate <handle> <rating> [comment...]".
// Tokenization is deliberately trivial: whitespace split, optional leading @.
func parseEvaluateArgs(args string) (handle string, rating int, comment string, err error) {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return "", 0, "", fmt.Errorf("usage: /evaluate <handle> <rating 1-5> [comment]")
	}

	handle = strings.TrimPrefix(fields[0], "@")
	if handle == "" {
		return "", 0, "", fmt.Errorf("handle is required")
	}

	rating, err = strconv.Atoi(fields[1])
	if err != nil {
		return "", 0, "", fmt.Errorf("rating must be a number between 1 and 5")
	}

	if len(fields) > 2 {
		comment = strings.Join(fields[2:], " ")
	}
	return handle, rating, comment, nil
}

// parseRepArgs tokenizes "/rep <handle>".
func parseRepArgs(args string) (string, error) {
	fields := strings.Fields(args)
	if len(fields) < 1 {
		return "", fmt.Errorf("usage: /rep <handle>")
	}
	return strings.TrimPrefix(fields[0], "@"), nil
}
