package main

import "github.com/dawnkit/wake-pipeline/cmd/wake-preview/cmd"

func main() {
	cmd.Execute()
}
