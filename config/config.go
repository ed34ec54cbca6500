package config

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"

	"coolc/common"

	"github.com/pelletier/go-toml"
)

// tomlConfigFile represents the project file as it is encoded in TOML
type tomlConfigFile struct {
	Project *tomlProject `toml:"project"`
}

// tomlProject represents the project settings as they are encoded in TOML
type tomlProject struct {
	Name     string `toml:"name"`
	Source   string `toml:"source,omitempty"`
	LogLevel string `toml:"log-level,omitempty"`
	DumpAST  bool   `toml:"dump-ast"`
}

// Config is the resolved project configuration.  Every field has a usable
// zero value so a project without a config file still checks.
type Config struct {
	// Name is the project name
	Name string

	// Source is the default source file checked when the CLI names none
	Source string

	// LogLevel is the default log level; the CLI flag overrides it
	LogLevel string

	// DumpAST prints the parsed class declarations before checking
	DumpAST bool
}

// Load reads the project file from a directory.  A missing file is not an
// error: it yields the zero configuration.
func Load(dir string) (*Config, error) {
	f, err := os.Open(filepath.Join(dir, common.ConfigFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}

		return nil, err
	}
	defer f.Close()

	buff, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, err
	}

	return Parse(buff)
}

// Parse decodes and validates the TOML contents of a project file.
func Parse(buff []byte) (*Config, error) {
	tcf := &tomlConfigFile{}
	if err := toml.Unmarshal(buff, tcf); err != nil {
		return nil, err
	}

	if tcf.Project == nil {
		return nil, errors.New("config file must contain a [project] section")
	}

	if tcf.Project.Name == "" {
		return nil, errors.New("config file must specify a project name")
	}

	return &Config{
		Name:     tcf.Project.Name,
		Source:   tcf.Project.Source,
		LogLevel: tcf.Project.LogLevel,
		DumpAST:  tcf.Project.DumpAST,
	}, nil
}
