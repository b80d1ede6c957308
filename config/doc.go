// Package config loads the artguide TOML configuration file.
//
// A missing file is not an error: Load returns the defaults, which can be
// written out as a starting point with CreateSample.
package config
