package main

import "webby/cmd"

func main() {
	cmd.Execute()
}
