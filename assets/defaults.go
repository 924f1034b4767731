package assets

import (
	_ "embed"
)

// DefaultConfigYAML contains the embedded default configuration, including
// the classification instruction sent with every capture.
//
//go:embed defaults/config.yaml
var DefaultConfigYAML []byte
