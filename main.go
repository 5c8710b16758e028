package main

import "idxlint/cmd"

func main() {
	cmd.Execute()
}
