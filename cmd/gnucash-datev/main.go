// Package main is the entry point for the gnucash-datev CLI.
package main

import (
	"os"

	"github.com/shunichi-ikebuchi/gnucash-datev/cmd/gnucash-datev/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
