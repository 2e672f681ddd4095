package main

import "github.com/ionut-t/nlsql/cmd"

func main() {
	cmd.Execute()
}
