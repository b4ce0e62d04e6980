package main

import "thoreinstein.com/projroot/cmd"

func main() {
	cmd.Execute()
}
