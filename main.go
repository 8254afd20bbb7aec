package main

import "data-curator/cmd"

func main() {
	cmd.Execute()
}
