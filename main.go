package main

import "github.com/ibelion/omniwiki/cmd"

func main() {
	cmd.Execute()
}
