package main

import "github.com/dawnkit/wake-pipeline/cmd/wake-daemon/cmd"

func main() {
	cmd.Execute()
}
