package main

import "github.com/kamusis/pixdex/cmd"

func main() {
	cmd.Execute()
}
