package main

import (
	"regsync/internal/cmd"
)

func main() {
	cmd.Execute()
}
