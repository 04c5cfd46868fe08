package main

import "github.com/goliatone/go-folio/internal/cli"

func main() {
	cli.Execute()
}
