//go:build windows

package server

import "os"

// Windows has no SIGHUP; reload is unavailable.
func notifyReload(chan<- os.Signal) {}
