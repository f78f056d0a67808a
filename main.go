package main

import "kvhouse/cmd"

func main() {
	cmd.Execute()
}
