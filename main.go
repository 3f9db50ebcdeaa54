package main

import (
	"context"
	"log"
	"os"

	"github.com/avstrong/roomdash/internal/app"
)

func main() {
	var exitCode int

	if err := app.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		log.Printf("[Error]: Failed to run app: %v", err.Error())

		exitCode = 1
	}

	os.Exit(exitCode)
}
