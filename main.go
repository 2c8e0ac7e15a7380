package main

import "adventure_shop/cli"

func main() {
	cli.Execute()
}
