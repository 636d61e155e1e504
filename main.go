package main

import (
	"github.com/joho/godotenv"
	"github.com/kweku404/intervue/cmd"
)

func main() {
	// Load .env if present; environment overrides are optional
	_ = godotenv.Load()

	cmd.Execute()
}
