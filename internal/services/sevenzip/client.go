package sevenzip

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resyncinator/internal/services"
)

// Extractor defines the behaviour the disc image handler needs.
type Extractor interface {
	Extract(ctx context.Context, imagePath, outDir string) error
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

// Client wraps the 7-Zip CLI used to extract disc images.
type Client struct {
	binary string
	exec   services.Executor
}

// New constructs a 7-Zip client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("7z binary required")
	}
	client := &Client{binary: binary, exec: services.CommandExecutor{}}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Extract unpacks imagePath directly into outDir, overwriting without prompting.
func (c *Client) Extract(ctx context.Context, imagePath, outDir string) error {
	if strings.TrimSpace(imagePath) == "" {
		return errors.New("image path required")
	}
	if strings.TrimSpace(outDir) == "" {
		return errors.New("output directory required")
	}
	args := []string{"x", imagePath, "-o" + outDir, "-y"}
	if err := c.exec.Run(ctx, c.binary, args, "", nil); err != nil {
		return fmt.Errorf("7z extract: %w", err)
	}
	return nil
}
