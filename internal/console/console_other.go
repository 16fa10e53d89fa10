//go:build !windows

// Package console detects how the process was started and installs a Ctrl+C
// handler that survives native libraries replacing it.
package console

import "github.com/rs/zerolog"

// Attach always reports true outside Windows.
func Attach() bool { return true }

// HandleInterrupt is a no-op; os/signal covers Unix-like systems.
func HandleInterrupt(func(), zerolog.Logger) func() { return func() {} }
