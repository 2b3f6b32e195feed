package main

import (
	"os"

	"github.com/beesaferoot/ams-store/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
