package main

import "github.com/chriserin/stepgen/cmd"

func main() {
	cmd.Execute()
}
