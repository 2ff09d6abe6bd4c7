package main

import (
	"fmt"
	"os"
	"yatube/internal/cli"

	"github.com/joho/godotenv"
)

func main() {
	// .env 可选
	_ = godotenv.Load()

	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
