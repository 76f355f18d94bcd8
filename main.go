package main

import "github.com/tanq16/gribdl/cmd"

func main() {
	cmd.Execute()
}
