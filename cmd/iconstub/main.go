package main

import "github.com/k1LoW/iconstub/cmd"

func main() {
	cmd.Execute()
}
