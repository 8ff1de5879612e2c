// # cmd/anino/main.go
package main

import (
	"os"

	"anino/internal/ui/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
