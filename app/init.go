package main

import (
	"fmt"
	"io"

	"github.com/funkybooboo/mygrep/internal/config"
)

func initConfigurationFile(configurationPath string, out io.Writer) error {
	if configurationPath == "" {
		configurationPath = config.DefaultPath
	}
	if err := config.Write(configurationPath, config.Default()); err != nil {
		return &exitError{code: exitTrouble, err: err}
	}
	fmt.Fprintf(out, "Configuration file created/updated: %s\n", configurationPath)
	return nil
}
