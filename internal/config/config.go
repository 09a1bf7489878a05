// Package config resolves MySQL connection parameters from one of several
// sources and merges them with the process-wide defaults.
//
// A parameter set is deliberately partial: every field is a pointer, and nil
// means "not specified here". The two merge policies in merge.go decide how
// partial sets combine with defaults; nothing in this package ever mutates
// the defaults themselves.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v3"

	"github.com/koustreak/sqlgate/internal/errs"
)

// configFile is the well-known path for the structured-file source,
// relative to the working directory the server was started in.
const configFile = "config.yaml"

// Source selects the configuration-loading strategy. It is chosen once at
// process start from the positional startup argument; only test_connection
// accepts a per-call override.
type Source string

const (
	// SourceYAML reads the database section of config.yaml.
	SourceYAML Source = "yaml"

	// SourceEnvFile loads .env into the process environment (without
	// overwriting variables already set), then reads like SourceSysEnv.
	SourceEnvFile Source = ".env"

	// SourceSysEnv reads the six fixed variable names from the process
	// environment.
	SourceSysEnv Source = "sys_env"
)

// ParseSource validates a raw source tag. An unrecognized tag is a config
// error; at startup the caller treats it as fatal.
func ParseSource(raw string) (Source, error) {
	switch Source(raw) {
	case SourceYAML, SourceEnvFile, SourceSysEnv:
		return Source(raw), nil
	default:
		return "", errs.New(errs.ErrKindConfig, "invalid source "+strconv.Quote(raw)+": must be one of yaml, .env, sys_env")
	}
}

// Params is a (possibly partial) set of connection parameters.
// A nil field means the value is absent from this set; for user, password,
// and database a nil that survives merging means "use the server default".
type Params struct {
	Host     *string `yaml:"host"`
	Port     *int    `yaml:"port"`
	User     *string `yaml:"user"`
	Password *string `yaml:"password"`
	Database *string `yaml:"database"`
	Charset  *string `yaml:"charset"`
}

// Defaults returns the process-wide fallback parameter set:
// host 127.0.0.1, port 3306, charset utf8mb4, everything else unset.
// Each call returns a fresh copy so callers can never alias the fallback.
func Defaults() Params {
	return Params{
		Host:    ptr("127.0.0.1"),
		Port:    ptr(3306),
		Charset: ptr("utf8mb4"),
	}
}

// Resolve loads a partial parameter set from the given source.
// Errors are always of kind ErrKindConfig: the service cannot run without
// usable configuration, so callers escalate them to process termination.
func Resolve(source Source) (Params, error) {
	switch source {
	case SourceYAML:
		return resolveYAML()
	case SourceEnvFile:
		// Missing .env behaves like an empty one; variables already set in
		// the environment are never overwritten.
		_ = godotenv.Load()
		return resolveEnv()
	case SourceSysEnv:
		return resolveEnv()
	default:
		return Params{}, errs.New(errs.ErrKindConfig, "invalid source "+strconv.Quote(string(source)))
	}
}

func resolveYAML() (Params, error) {
	raw, err := os.ReadFile(configFile)
	if err != nil {
		if os.IsNotExist(err) {
			return Params{}, errs.New(errs.ErrKindConfig, configFile+" not found")
		}
		return Params{}, errs.Wrap(errs.ErrKindConfig, "cannot read "+configFile, err)
	}

	var doc struct {
		Database Params `yaml:"database"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Params{}, errs.Wrap(errs.ErrKindConfig, "cannot parse "+configFile, err)
	}
	return doc.Database, nil
}

// resolveEnv reads the six fixed, case-sensitive variable names. Any unset
// variable stays nil in the partial set.
func resolveEnv() (Params, error) {
	p := Params{
		Host:     lookupEnv("host"),
		User:     lookupEnv("user"),
		Password: lookupEnv("password"),
		Database: lookupEnv("database"),
		Charset:  lookupEnv("charset"),
	}

	if raw := lookupEnv("port"); raw != nil {
		port, err := strconv.Atoi(*raw)
		if err != nil {
			return Params{}, errs.Wrap(errs.ErrKindConfig, "environment variable port is not a number", err)
		}
		p.Port = &port
	}
	return p, nil
}

func lookupEnv(name string) *string {
	if v, ok := os.LookupEnv(name); ok {
		return &v
	}
	return nil
}

func ptr[T any](v T) *T {
	return &v
}
