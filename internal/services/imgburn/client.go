package imgburn

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resyncinator/internal/services"
)

// BuildRequest describes one image build invocation. Sources are entry names
// relative to WorkDir; the tool is run with WorkDir as its working directory.
type BuildRequest struct {
	WorkDir      string
	SettingsPath string
	Sources      []string
	VolumeLabel  string
	Dest         string
	LogName      string
}

// Builder defines the behaviour the disc authoring step needs.
type Builder interface {
	Build(ctx context.Context, req BuildRequest) error
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

// Client wraps the ImgBurn CLI used to author ISO9660+UDF disc images.
type Client struct {
	binary string
	exec   services.Executor
}

// New constructs an ImgBurn client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("imgburn binary required")
	}
	client := &Client{binary: binary, exec: services.CommandExecutor{}}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Build runs a fixed ISO9660+UDF 1.02 image build over the requested sources.
func (c *Client) Build(ctx context.Context, req BuildRequest) error {
	if strings.TrimSpace(req.WorkDir) == "" {
		return errors.New("work directory required")
	}
	if len(req.Sources) == 0 {
		return errors.New("at least one source entry required")
	}
	if strings.TrimSpace(req.VolumeLabel) == "" {
		return errors.New("volume label required")
	}
	if strings.TrimSpace(req.Dest) == "" {
		return errors.New("destination required")
	}
	settings := strings.TrimSpace(req.SettingsPath)
	if settings == "" {
		settings = "./imgburn.ini"
	}
	logName := strings.TrimSpace(req.LogName)
	if logName == "" {
		logName = "DELETEME"
	}

	args := []string{
		"/SETTINGS", settings,
		"/PORTABLE",
		"/MODE", "BUILD",
		"/BUILDMODE", "IMAGEFILE",
		"/FILESYSTEM", "ISO9660 + UDF",
		"/UDFREV", "1.02",
		"/VOLUMELABEL", req.VolumeLabel,
		"/OVERWRITE", "YES",
		"/ROOTFOLDER", "TRUE",
		"/NOIMAGEDETAILS",
		"/SRC", strings.Join(req.Sources, "|"),
		"/DEST", req.Dest,
		"/START",
		"/CLOSE",
		"/LOG", logName,
	}
	if err := c.exec.Run(ctx, c.binary, args, req.WorkDir, nil); err != nil {
		return fmt.Errorf("imgburn build: %w", err)
	}
	return nil
}
