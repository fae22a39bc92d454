//go:build windows

package main

import "os"

// stopSignals cancel a running build. Windows has no SIGTERM.
var stopSignals = []os.Signal{os.Interrupt}
