package main

import (
	"os"

	"tallysync-backend/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
