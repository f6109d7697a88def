package main

import "github.com/mcoot/classgold/internal/cli"

func main() {
	cli.Execute()
}
