package main

import "github.com/bodik-jp/bodik-mcp/cmd"

func main() {
	cmd.Execute()
}
