// cmd/groupdropd/main.go
package main

import (
	"log"
	"os"

	"github.com/groupdrop/groupdrop/internal/app/bootstrap"
)

func main() {
	if err := bootstrap.Run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
