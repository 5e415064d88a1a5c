package logging

import "github.com/vvka-141/linkupdater/pkg/linkupdater"

// Verify implementations satisfy the interface at compile time
var (
	_ linkupdater.Logger = (*ConsoleLogger)(nil)
	_ linkupdater.Logger = (*NullLogger)(nil)
)
