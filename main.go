package main

import "github.com/timvw/termsense/cmd"

func main() {
	cmd.Execute()
}
