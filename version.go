package questvault

import _ "embed"

// Version is the release version of questvault.
//
//go:embed VERSION
var Version string
