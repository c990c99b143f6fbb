// Package app wires the build configurer together: it owns the logger, the
// loaded build settings, and the configure-finalize-render lifecycle,
// decoupled from any specific entrypoint like a CLI.
package app
