package main

import "github.com/fakeyudi/envision/cmd"

func main() {
	cmd.Execute()
}
