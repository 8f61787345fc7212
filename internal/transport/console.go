package transport

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

const consolePrompt = "You: "

// Console is a line based provider over any reader/writer pair.
type Console struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

// PromptAndRead returns io.EOF once the input is exhausted.
func (c *Console) PromptAndRead(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := fmt.Fprint(c.out, consolePrompt); err != nil {
		return "", err
	}
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.scanner.Text()), nil
}

func (c *Console) Render(_ context.Context, text string) error {
	_, err := fmt.Fprintf(c.out, "System: %s\n", text)
	return err
}
