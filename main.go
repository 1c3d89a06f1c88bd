package main

import (
	"github.com/postforge/media-mirror/cmd"
)

func main() {
	cmd.Execute()
}
