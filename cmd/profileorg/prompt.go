package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"profileorg/internal/matcher"
)

const maxPromptAttempts = 3

// promptDecider asks on the terminal which device an ambiguous profile is for.
type promptDecider struct {
	in  *bufio.Reader
	out io.Writer
}

func newPromptDecider(in io.Reader, out io.Writer) *promptDecider {
	return &promptDecider{in: bufio.NewReader(in), out: out}
}

// Decide lists the candidates and reads a number. An empty answer, "q", "s" or
// end of input skips the file without an error.
func (p *promptDecider) Decide(ctx context.Context, filename string, candidates []matcher.Candidate) (string, bool, error) {
	fmt.Fprintf(p.out, "\nMultiple printers match %q:\n", filename)
	for i, c := range candidates {
		fmt.Fprintf(p.out, "  %d. %s (matched %q)\n", i+1, c.Device, c.Key)
	}
	for attempt := 0; attempt < maxPromptAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", false, err
		}
		fmt.Fprintf(p.out, "Choose 1-%d, or q to skip: ", len(candidates))
		line, err := p.in.ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))
		if err != nil && !errors.Is(err, io.EOF) {
			return "", false, err
		}
		if answer == "" || answer == "q" || answer == "s" {
			return "", false, nil
		}
		if n, convErr := strconv.Atoi(answer); convErr == nil && n >= 1 && n <= len(candidates) {
			return candidates[n-1].Device, true, nil
		}
		fmt.Fprintf(p.out, "Invalid choice %q\n", answer)
		if errors.Is(err, io.EOF) {
			break
		}
	}
	return "", false, nil
}
