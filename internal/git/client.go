package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"slowbench/internal/command"
)

// ErrNotRepository is returned when the directory is not inside a work tree.
var ErrNotRepository = errors.New("not a git repository")

// Client handles git interactions.
type Client struct {
	Runner command.Runner
}

// NewClient creates a new Git client on top of the given runner.
func NewClient(runner command.Runner) *Client {
	return &Client{Runner: runner}
}

func (c *Client) output(ctx context.Context, dir string, args ...string) (string, error) {
	var out bytes.Buffer
	res, err := c.Runner.Run(ctx, command.Command{
		Name:   "git",
		Args:   args,
		Dir:    dir,
		Stdout: &out,
	})
	if err != nil {
		return "", fmt.Errorf("git %s failed: %w", args[0], err)
	}
	if !res.Success() {
		if strings.Contains(res.Stderr, "not a git repository") {
			return "", fmt.Errorf("%w: %s", ErrNotRepository, dir)
		}
		return "", fmt.Errorf("git %s failed with status %d: %s", args[0], res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	return strings.TrimSpace(out.String()), nil
}

// CurrentCommit returns the abbreviated hash of HEAD.
func (c *Client) CurrentCommit(ctx context.Context, dir string) (string, error) {
	return c.output(ctx, dir, "rev-parse", "--short", "HEAD")
}

// CurrentBranch returns the name of the current branch.
func (c *Client) CurrentBranch(ctx context.Context, dir string) (string, error) {
	return c.output(ctx, dir, "branch", "--show-current")
}
