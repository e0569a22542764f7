// file: main.go
// version: 2.0.0
// guid: 3e8a1c55-7b0d-4f26-9a41-c2d6e9f0b7a4

package main

import (
	"fmt"
	"os"

	"github.com/classificacaofinal/classificacao/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
