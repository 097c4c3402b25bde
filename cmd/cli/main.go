package main

import "github.com/angelospk/subgrab/cmd/cli/cmd"

func main() {
	cmd.Execute()
}
