package main

import "github.com/jsphweid/quantdex/cmd"

func main() {
	cmd.Execute()
}
