package main

import "cmis-harness/cmd"

func main() {
	cmd.Execute()
}
