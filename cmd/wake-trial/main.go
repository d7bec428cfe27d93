package main

import "github.com/dawnkit/wake-pipeline/cmd/wake-trial/cmd"

func main() {
	cmd.Execute()
}
