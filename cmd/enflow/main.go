package main

import "github.com/enflow/enflow/internal/cli"

func main() {
	cli.Execute()
}
