package main

import "github.com/Rakhulsr/go-perfumery/app/cmd"

func main() {
	cmd.RunCli()
}
