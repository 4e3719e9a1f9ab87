package main

import (
	"github.com/tk-online/catalog-api/cmd"
)

func main() {
	cmd.Execute()
}
