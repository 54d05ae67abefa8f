// Package config loads, normalizes, and validates resyncinator's TOML
// configuration.
//
// Loading resolves the config file from an explicit path, the user config
// directory, or a project-local resyncinator.toml, then expands ~ paths and
// applies defaults so downstream packages can rely on fully-resolved values.
package config
