package config

import _ "embed"

// DefaultConfigYAML is the built-in configuration baked into the binary.
// External files and SNPFIN_* environment variables override it.
//
//go:embed default.yaml
var DefaultConfigYAML []byte
