package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type rootCmdConfig struct {
	verbose bool
}

// logger writes progress lines to stderr when true and swallows them
// when false.
type logger bool

func (l logger) Logf(format string, a ...interface{}) {
	if !l {
		return
	}
	fmt.Fprintf(os.Stderr, format+"\n", a...)
}

func (r *rootCmdConfig) Logf(format string, a ...interface{}) {
	logger(r.verbose).Logf(format, a...)
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "arboretum",
		Short: "arboretum is a tool to grow decision trees",
		Long:  `A tool to grow regression and classification trees from your data`,
	}
	config := &rootCmdConfig{}
	rootCmd.PersistentFlags().BoolVarP(&(config.verbose), "verbose", "v", false, "")
	rootCmd.AddCommand(versionCmd(), growCmd(config))
	return rootCmd
}
