package config

// Version is the typegraph binary version.
// Set at build time via: -ldflags "-X github.com/persistorai/typegraph/internal/config.Version=<tag>"
// Defaults to "dev" when built without ldflags.
var Version = "dev"
