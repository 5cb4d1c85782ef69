package main

import "github.com/chaserCN/utf8csv/internal/cli"

func main() {
	cli.Execute()
}
