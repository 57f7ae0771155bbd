package fixtures

import (
	"embed"
)

//go:embed config/config.yaml.template
var ConfigTemplate []byte

// Matrices holds the small Matrix Market files used by the smoke run and
// by tests.
//
//go:embed matrices
var Matrices embed.FS
