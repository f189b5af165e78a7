package main

import "fmt"

// Version is the current release, set at build time via
// -ldflags "-X main.Version=...".
var Version = "dev"

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("pool-watcher %s\n", Version)
}
