// # cmd/snipex/main.go
package main

import (
	"os"

	"snipex/internal/ui/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
