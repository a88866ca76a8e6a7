package main

import "avotrade/internal/cli"

func main() {
	cli.Execute()
}
