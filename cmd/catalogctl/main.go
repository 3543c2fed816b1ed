package main

import "github.com/Nakul-Jaglan/thob3d-assignment/internal/cli"

func main() {
	cli.Execute()
}
