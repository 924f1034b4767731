package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/doeshing/scrnstr/internal/infrastructure/cli"
)

func main() {
	ctx := context.Background()
	root := cli.NewRootCmd(ctx, cli.Options{Verbose: isVerbose()})
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func isVerbose() bool {
	v := os.Getenv("SCRNSTR_DEBUG")
	return v == "1" || strings.EqualFold(v, "true")
}
