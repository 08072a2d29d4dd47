package main

import "ytmp3/cmd"

func main() {
	cmd.Execute()
}
