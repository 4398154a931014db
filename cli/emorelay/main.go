package main

import (
	"os"

	emorelaycmder "github.com/papercomputeco/emorelay/cmd/emorelay"
)

func main() {
	cmd := emorelaycmder.NewEmorelayCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
