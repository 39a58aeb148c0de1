package main

import "github.com/stuttgart-things/jenkins2gitlab/cmd"

func main() {
	cmd.Execute()
}
