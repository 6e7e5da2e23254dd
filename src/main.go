package main

import (
	"github.com/smichaku/claude.vim/src/cmd"
)

func main() {
	cmd.Execute()
}
