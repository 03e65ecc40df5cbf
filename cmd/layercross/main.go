package main

import (
	"os"

	"github.com/mfms-ncsu/layercross/internal/cli"
	"github.com/mfms-ncsu/layercross/pkg/buildinfo"
)

func main() {
	cli.SetVersion(buildinfo.Version, buildinfo.Commit, buildinfo.Date)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
