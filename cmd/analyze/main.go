package main

import (
	"os"

	"github.com/SAP-F-2025/questionnaire-analytics/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
