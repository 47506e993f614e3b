package main

import "github.com/anatolykoptev/go_recipe/internal/cli"

func main() {
	cli.Execute()
}
