package main

import (
	"os"

	"github.com/kaedeh1ra/QR-Detector/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
