package main

import "github.com/sadopc/dayplan/internal/cli"

func main() {
	cli.Execute()
}
