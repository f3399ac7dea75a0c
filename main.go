package main

import "apitop/cmd"

func main() {
	cmd.Execute()
}
