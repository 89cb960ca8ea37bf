package main

import "github.com/clickwar-arcade/clickwar/internal/cli"

func main() {
	cli.Execute()
}
