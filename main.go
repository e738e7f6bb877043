package main

import "github.com/LegacyCodeHQ/glslflat/cmd"

func main() {
	cmd.Execute()
}
