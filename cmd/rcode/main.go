package main

import (
	"os"

	"github.com/antonkrylov/rcode/internal/cli/app"
	"github.com/antonkrylov/rcode/internal/editor"
)

func main() {
	os.Exit(app.Main(editor.VSCode))
}
