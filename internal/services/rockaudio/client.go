package rockaudio

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resyncinator/internal/services"
)

// Converter defines the codec behaviour the transform step needs. Conversion
// direction is inferred by the tool from the file extensions.
type Converter interface {
	Convert(ctx context.Context, srcPath, dstPath string) error
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

// Client wraps the codec CLI that converts between the game's VGS audio
// container and WAV.
type Client struct {
	binary string
	exec   services.Executor
}

// New constructs a codec client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("rockaudio binary required")
	}
	client := &Client{binary: binary, exec: services.CommandExecutor{}}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Convert transcodes srcPath into dstPath.
func (c *Client) Convert(ctx context.Context, srcPath, dstPath string) error {
	if strings.TrimSpace(srcPath) == "" {
		return errors.New("source path required")
	}
	if strings.TrimSpace(dstPath) == "" {
		return errors.New("destination path required")
	}
	if err := c.exec.Run(ctx, c.binary, []string{"convert", srcPath, dstPath}, "", nil); err != nil {
		return fmt.Errorf("rockaudio convert: %w", err)
	}
	return nil
}
