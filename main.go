package main

import "kbassistant/cmd"

func main() {
	cmd.Execute()
}
