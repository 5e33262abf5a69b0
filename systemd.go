package main

import (
	_ "embed"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"text/template"
)

//go:embed ringd.service
var ringdServiceEmbed string

type RingdServiceParams struct {
	BinaryPath string
	ConfigPath string
	User       string
}

// SystemdServiceFile renders a unit file for the running binary.
func SystemdServiceFile(w io.Writer, configPath string) error {
	tmpl, err := template.New("ringd.service").Parse(ringdServiceEmbed)
	if err != nil {
		return err
	}

	path, err := os.Executable()
	if err != nil {
		return err
	}

	params := RingdServiceParams{
		BinaryPath: path,
		User:       "ringd",
	}
	if u, err := user.Current(); err == nil {
		params.User = u.Username
	}
	if configPath != "" {
		if params.ConfigPath, err = filepath.Abs(configPath); err != nil {
			return err
		}
	}

	return tmpl.Execute(w, params)
}
