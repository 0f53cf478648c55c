package main

import "github.com/solargrid/solargrid-web/cmd/solargridctl/cmd"

func main() {
	cmd.Execute()
}
