package main

import "github.com/uiactl/uiactl/cmd"

func main() {
	cmd.Execute()
}
