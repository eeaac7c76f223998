package main

import "github.com/fairq/fairq/cmd"

func main() {
	cmd.Execute()
}
