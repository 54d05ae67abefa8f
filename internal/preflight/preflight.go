package preflight

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"resyncinator/internal/config"
	"resyncinator/internal/deps"
	"resyncinator/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Requirements returns the external binary requirements for the given config.
// The authoring tools are optional because a run only needs them when disc
// authoring is requested.
func Requirements(cfg *config.Config) []deps.Requirement {
	return []deps.Requirement{
		{
			Name:        "arkhelper",
			Command:     cfg.ToolPath(cfg.Tools.ArkHelper),
			Description: "Required to unpack and repack ARK archive units",
		},
		{
			Name:        "rockaudio",
			Command:     cfg.ToolPath(cfg.Tools.RockAudio),
			Description: "Required to convert VGS audio to and from WAV",
		},
		{
			Name:        "7z",
			Command:     cfg.ToolPath(cfg.Tools.SevenZip),
			Description: "Required to extract disc images",
		},
		{
			Name:        "imgburn",
			Command:     cfg.ToolPath(cfg.Tools.ImgBurn),
			Description: "Builds the final disc image",
			Optional:    true,
		},
		{
			Name:        "ps2master",
			Command:     cfg.ToolPath(cfg.Tools.PS2Master),
			Description: "Masters the authored image for console compatibility",
			Optional:    true,
		},
	}
}

// RunAll executes all preflight checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir),
		CheckDirectoryAccess("Staging directory", cfg.Paths.StagingDir),
	}
	for _, status := range deps.CheckBinaries(Requirements(cfg)) {
		result := Result{Name: status.Name, Passed: status.Available, Detail: status.Detail}
		if status.Available {
			result.Detail = status.Command
		} else if status.Optional {
			result.Detail = status.Detail + " (optional)"
		}
		results = append(results, result)
	}
	return results
}

// RequireTools verifies that every non-optional binary is present. This is
// the fatal precondition check performed before any processing begins.
func RequireTools(cfg *config.Config) error {
	missing := deps.MissingRequired(deps.CheckBinaries(Requirements(cfg)))
	if len(missing) == 0 {
		return nil
	}
	names := make([]string, 0, len(missing))
	for _, status := range missing {
		names = append(names, fmt.Sprintf("%s (%s)", status.Name, status.Detail))
	}
	return services.Wrap(services.ErrConfiguration, "preflight", "check tools",
		"missing required binaries: "+strings.Join(names, ", "), nil)
}

// CheckDirectoryAccess verifies that the directory exists and is readable and
// writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}
