package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

const (
	defaultListen   = ":8080"
	defaultWordFile = "dictionary.txt"
)

// Config is the service configuration, read from an optional HCL file.
type Config struct {
	Listen        string          `hcl:"listen,optional"`
	MinWordLength int             `hcl:"min_word_length,optional"`
	LogLevel      string          `hcl:"log_level,optional"`
	LogFormat     string          `hcl:"log_format,optional"`
	WordList      *WordListConfig `hcl:"word_list,block"`
	Gemini        *GeminiConfig   `hcl:"gemini,block"`
}

// WordListConfig selects where the raw word list comes from. Exactly one
// field may be set.
type WordListConfig struct {
	File   string `hcl:"file,optional"`
	URL    string `hcl:"url,optional"`
	SQLite string `hcl:"sqlite,optional"`
}

type GeminiConfig struct {
	Project string `hcl:"project,optional"`
	Region  string `hcl:"region,optional"`
	Model   string `hcl:"model,optional"`
}

// LoadConfig reads the HCL file at path, fills in defaults and applies the
// PORT, GCP_PROJECT_ID and GCP_REGION environment overrides. An empty path
// yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		cfg := &Config{}
		cfg.finish(os.Environ())
		return cfg, cfg.Validate()
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return parseConfig(src, path, os.Environ())
}

func parseConfig(src []byte, filename string, environ []string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config %s: %w", filename, diags)
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, envEvalContext(environ), &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config %s: %w", filename, diags)
	}

	cfg.finish(environ)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", filename, err)
	}
	return &cfg, nil
}

// envEvalContext exposes the environment to config expressions as env.NAME.
func envEvalContext(environ []string) *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = cty.StringVal(v)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vars),
		},
	}
}

// finish applies defaults, then environment overrides.
func (c *Config) finish(environ []string) {
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	if c.MinWordLength == 0 {
		c.MinWordLength = MinWordLength
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
	if c.WordList == nil {
		c.WordList = &WordListConfig{}
	}
	if c.WordList.File == "" && c.WordList.URL == "" && c.WordList.SQLite == "" {
		c.WordList.File = defaultWordFile
	}
	if c.Gemini == nil {
		c.Gemini = &GeminiConfig{}
	}

	env := make(map[string]string)
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	if port := env["PORT"]; port != "" {
		c.Listen = ":" + port
	}
	if p := env["GCP_PROJECT_ID"]; p != "" {
		c.Gemini.Project = p
	}
	if r := env["GCP_REGION"]; r != "" {
		c.Gemini.Region = r
	}
}

// Validate reports the first configuration error found.
func (c *Config) Validate() error {
	if c.MinWordLength < 1 {
		return fmt.Errorf("min_word_length must be at least 1, got %d", c.MinWordLength)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be \"text\" or \"json\", got %q", c.LogFormat)
	}
	if c.WordList != nil {
		n := 0
		for _, v := range []string{c.WordList.File, c.WordList.URL, c.WordList.SQLite} {
			if v != "" {
				n++
			}
		}
		if n > 1 {
			return errors.New("word_list: set only one of file, url or sqlite")
		}
	}
	return nil
}

// OpenWordSource builds the configured word source. The returned close func
// releases the SQLite store, if any.
func (c *Config) OpenWordSource() (WordSource, func() error, error) {
	noop := func() error { return nil }
	wl := c.WordList
	switch {
	case wl.URL != "":
		return &CachedWordList{Source: URLWordList{URL: wl.URL}}, noop, nil
	case wl.SQLite != "":
		db, err := OpenWordStore(wl.SQLite)
		if err != nil {
			return nil, nil, err
		}
		return SQLiteWordList{DB: db, MinLength: c.MinWordLength}, db.Close, nil
	default:
		return &CachedWordList{Source: FileWordList{Path: wl.File}}, noop, nil
	}
}
