package main

import (
	"log"

	"github.com/thiagokokada/tig-go/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		log.Fatalf("tig-go: %v", err)
	}
}
