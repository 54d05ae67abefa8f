package arkhelper

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"resyncinator/internal/services"
)

// Archiver defines the behaviour the archive unit handler needs.
type Archiver interface {
	Unpack(ctx context.Context, hdrPath, outDir string) error
	Pack(ctx context.Context, inputDir, outDir, name string, maxSizeBytes int64) error
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

// Client wraps the arkhelper CLI used to unpack and repack ARK archive pairs.
type Client struct {
	binary string
	exec   services.Executor
}

// New constructs an arkhelper client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("arkhelper binary required")
	}
	client := &Client{binary: binary, exec: services.CommandExecutor{}}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Unpack extracts the archive pair identified by hdrPath into outDir.
func (c *Client) Unpack(ctx context.Context, hdrPath, outDir string) error {
	if strings.TrimSpace(hdrPath) == "" {
		return errors.New("header path required")
	}
	if strings.TrimSpace(outDir) == "" {
		return errors.New("output directory required")
	}
	args := []string{"ark2dir", hdrPath, outDir, "-a"}
	if err := c.exec.Run(ctx, c.binary, args, "", nil); err != nil {
		return fmt.Errorf("arkhelper ark2dir: %w", err)
	}
	return nil
}

// Pack rebuilds an archive pair named name (NAME.HDR plus NAME*.ARK data
// files capped at maxSizeBytes each) in outDir from the contents of inputDir.
func (c *Client) Pack(ctx context.Context, inputDir, outDir, name string, maxSizeBytes int64) error {
	if strings.TrimSpace(inputDir) == "" {
		return errors.New("input directory required")
	}
	if strings.TrimSpace(outDir) == "" {
		return errors.New("output directory required")
	}
	if strings.TrimSpace(name) == "" {
		return errors.New("archive name required")
	}
	if maxSizeBytes <= 0 {
		return fmt.Errorf("max size must be positive, got %d", maxSizeBytes)
	}
	args := []string{"dir2ark", inputDir, outDir, "-n", name, "-s", strconv.FormatInt(maxSizeBytes, 10)}
	if err := c.exec.Run(ctx, c.binary, args, "", nil); err != nil {
		return fmt.Errorf("arkhelper dir2ark: %w", err)
	}
	return nil
}
