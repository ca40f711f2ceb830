package scratchpad

import _ "embed"

// Version is the library version, sourced from the VERSION file at the
// repository root.
//
//go:embed VERSION
var Version string
