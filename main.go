package main

import "github.com/video-stream/captions/internal/cli"

func main() {
	cli.Execute()
}
