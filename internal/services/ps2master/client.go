package ps2master

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"resyncinator/internal/services"
)

// Masterer defines the behaviour the disc authoring step needs.
type Masterer interface {
	Master(ctx context.Context, isoPath string) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec services.Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps the ps2master CLI that rewrites an authored image's boot
// sectors for console compatibility.
type Client struct {
	binary string
	exec   services.Executor
}

// New constructs a ps2master client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ps2master binary required")
	}
	client := &Client{binary: binary, exec: services.CommandExecutor{}}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Master runs the tool against isoPath. The tool expects to run from the
// image's directory with a bare file name argument.
func (c *Client) Master(ctx context.Context, isoPath string) error {
	if strings.TrimSpace(isoPath) == "" {
		return errors.New("iso path required")
	}
	dir := filepath.Dir(isoPath)
	name := filepath.Base(isoPath)
	if err := c.exec.Run(ctx, c.binary, []string{name}, dir, nil); err != nil {
		return fmt.Errorf("ps2master: %w", err)
	}
	return nil
}
