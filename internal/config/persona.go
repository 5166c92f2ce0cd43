package config

import _ "embed"

// DefaultPersona is written to the runtime directory by `dazi init`.
//
//go:embed persona.txt
var DefaultPersona string
