package main

import (
	"os"

	"composition-converter/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
