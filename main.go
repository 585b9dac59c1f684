package main

import "github.com/comictalker/mangabaka/cmd"

// execute is a seam for testing main without parsing real arguments.
var execute = cmd.Execute

func main() {
	execute()
}
