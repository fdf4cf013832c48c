package main

import "github.com/jessica-vector/snf-for-polymer-characterisation/cmd"

func main() {
	cli := cmd.NewCLI()
	cli.Execute()
}
