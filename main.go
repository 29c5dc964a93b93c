package main

import "frontdesk/cmd"

func main() {
	cmd.Execute()
}
