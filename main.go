package main

import "github.com/icco/midireg/cmd"

func main() {
	cmd.Execute()
}
