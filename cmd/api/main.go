package main

import "cookieshop/internal/cli"

func main() {
	cli.Execute()
}
