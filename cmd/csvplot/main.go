package main

import "github.com/JonMunkholm/csvplot/internal/cli"

func main() {
	cli.Execute()
}
