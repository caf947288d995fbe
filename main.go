package main

import "zaliv/cmd"

func main() {
	cmd.Execute()
}
