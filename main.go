package main

import (
	"os"

	"github.com/SAP-F-2025/interview-prep-service/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
