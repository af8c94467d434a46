package main

import "github.com/auto-browser/forge/cmd/ab-forge/cmd"

func main() {
	cmd.Execute()
}
