package main

import "github.com/mcoot/rconstore/internal/cli"

func main() {
	cli.Execute()
}
