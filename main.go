package main

import "github.com/Daskott/addressbook/cmd"

func main() {
	cmd.Execute()
}
