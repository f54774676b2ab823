package main

import (
	"fmt"
	"os"

	"github.com/resym-go/resymgo/internal/config"
	"github.com/resym-go/resymgo/internal/resymlog"
)

func main() {
	resymlog.SetLevel(config.LogLevel())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
