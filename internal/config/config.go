// Package config loads pulsenet run configuration from CUE.
//
// A configuration file is unified with the embedded #Config schema, which
// supplies defaults and rejects unknown fields. Relative paths in the file
// are resolved against the file's directory.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

//go:embed schema.cue
var schemaCUE string

// Config is a resolved run configuration.
type Config struct {
	Network    string   `json:"network,omitempty"`
	Presses    int64    `json:"presses"`
	Entries    []string `json:"entries"`
	MaxPresses int64    `json:"max_presses"`
	Database   string   `json:"database"`
	LogFile    string   `json:"log_file"`
}

// Error code constants.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeLoadFailed  = "E004" // CUE source does not compile
	ErrCodeNotFound    = "E005" // Config file not found
	ErrCodeBuildFailed = "E006" // Config does not satisfy the schema
)

// LoadError represents an error that occurred during config loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsLoadError returns the LoadError in err's chain, if any.
func IsLoadError(err error) (*LoadError, bool) {
	var le *LoadError
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}

// Default returns the schema defaults.
func Default() *Config {
	cfg, err := LoadString("{}", "default.cue")
	if err != nil {
		// The embedded schema is fixed; failing here is a build defect.
		panic(fmt.Sprintf("config: embedded schema: %v", err))
	}
	return cfg
}

// Load reads and validates the CUE file at path.
func Load(path string) (*Config, error) {
	src, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("config file not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("reading config: %v", err)}
	}

	cfg, err := LoadString(string(src), path)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	cfg.Network = resolve(dir, cfg.Network)
	cfg.Database = resolve(dir, cfg.Database)
	cfg.LogFile = resolve(dir, cfg.LogFile)
	return cfg, nil
}

// LoadString validates CUE source; filename is used in error positions.
// Paths are returned as written.
func LoadString(src, filename string) (*Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("compiling schema: %v", err)}
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	data := ctx.CompileString(src, cue.Filename(filename))
	if err := data.Err(); err != nil {
		return nil, newLoadError(ErrCodeLoadFailed, err)
	}

	value := def.Unify(data)
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, newLoadError(ErrCodeBuildFailed, err)
	}

	var cfg Config
	if err := value.Decode(&cfg); err != nil {
		return nil, newLoadError(ErrCodeGeneric, err)
	}
	if cfg.Entries == nil {
		cfg.Entries = []string{}
	}
	return &cfg, nil
}

func newLoadError(code string, err error) *LoadError {
	le := &LoadError{Code: code, Message: err.Error()}
	if errs := cueerrors.Errors(err); len(errs) > 0 {
		le.Message = errs[0].Error()
		le.Pos = errs[0].Position()
	}
	return le
}

func resolve(dir, path string) string {
	if path == "" || path == ":memory:" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
