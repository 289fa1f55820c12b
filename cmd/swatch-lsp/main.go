package main

import (
	"os"

	"github.com/jsvensson/colorswap/internal/lsp"
)

var version = "dev"

func main() {
	s := lsp.NewServer(version, 1)
	if err := s.Run(); err != nil {
		os.Exit(1)
	}
}
