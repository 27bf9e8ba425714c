package main

import "package-migrator/cmd"

func main() {
	cmd.Execute()
}
