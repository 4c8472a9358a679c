package main

import "github.com/hbomb79/Reel/internal/cli"

// main is the entry point to Reel. Configuration is loaded from the file
// passed with --config (if any) and the environment.
func main() {
	cli.Execute()
}
