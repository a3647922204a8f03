package main

import "github.com/iksnae/emotion-session/cmd"

func main() {
	cmd.Execute()
}
