package main

import "github.com/mabhi256/ldiag/cmd"

func main() {
	cmd.Execute()
}
