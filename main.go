package main

import "martforge/cmd"

func main() {
	cmd.Execute()
}
