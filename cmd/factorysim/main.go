package main

import "github.com/andrescamacho/factorysim/internal/adapters/cli"

func main() {
	cli.Execute()
}
