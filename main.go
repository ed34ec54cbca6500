package main

import (
	"os"

	"coolc/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
