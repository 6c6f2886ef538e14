// Package configs provides the embedded default configuration for babble.
package configs

import _ "embed"

// Defaults is the default YAML configuration, overlaid by the user's config file.
//
//go:embed defaults.yaml
var Defaults []byte
