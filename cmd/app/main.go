package main

import (
	"os"
	"readyToHelp/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		os.Exit(1)
	}
}
