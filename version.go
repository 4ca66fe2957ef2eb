package drover

import _ "embed"

// Version is the release version, read from the VERSION file at the
// module root. Use sites trim whitespace.
//
//go:embed VERSION
var Version string
