// Command argonaut is a research paper assistant.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/argonaut/internal/adapters/driving/cli"
)

func main() {
	_ = godotenv.Load()

	cli.SetInitializer(wire)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
