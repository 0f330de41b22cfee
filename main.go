package main

import (
	"github.com/ValentinKolb/elide/cmd"
)

func main() {
	cmd.Execute()
}
