package main

import "github.com/andrescamacho/bizsim-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
