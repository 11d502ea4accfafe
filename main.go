package main

import "github.com/booklingua/booklingua/cmd"

func main() {
	cmd.Execute()
}
