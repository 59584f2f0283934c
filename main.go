package main

import "github.com/swoopdl/swoop/cmd"

func main() {
	cmd.Execute()
}
