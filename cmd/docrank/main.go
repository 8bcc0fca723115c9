package main

import "github.com/kalidindinikhila/adobe-round2-challenge1b/internal/cli"

func main() {
	cli.Execute()
}
