package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

// New loads config.yaml from the working directory or one of the usual
// config directories relative to it, so binaries and package tests share one file.
func New() (*Config, error) {
	cfg, err := Load[Config]("config", "config", "../config", "../../config", "../../../config")
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)
	if cfg.Postgres != nil {
		cfg.Postgres.Replicas = replicasFromEnv(os.Getenv)
	}

	return cfg, nil
}

// Load reads <name>.yaml from the first directory that has one, then lets
// environment variables override it. SESSION_SECRET overrides session.secret;
// segments are matched against the keys already present in the file, so
// POSTGRES_SSLMODE lands on postgres.sslMode.
func Load[T any](name string, dirs ...string) (*T, error) {
	path, err := findFile(name+".yaml", dirs)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}

	resolve := envKeyResolver(k.Keys())
	if err := k.Load(env.Provider(".", env.Opt{
		TransformFunc: func(key, value string) (string, any) {
			return resolve(key), value
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "read environment")
	}

	out := new(T)
	if err := k.UnmarshalWithConf("", out, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           out,
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
			MatchName:        strings.EqualFold,
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}

	return out, nil
}

// findFile searches the working directory first, then dirs relative to it.
func findFile(name string, dirs []string) (string, error) {
	candidates := []string{name}
	for _, dir := range dirs {
		candidates = append(candidates, filepath.Join(dir, name))
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return filepath.Abs(candidate)
		}
	}

	return "", errors.Errorf("%s not found in %s", name, strings.Join(append([]string{"."}, dirs...), ", "))
}

// envKeyResolver maps an environment variable name to a config key path.
// Known keys keep their YAML spelling; unknown names become lower-case dotted paths.
func envKeyResolver(known []string) func(string) string {
	index := make(map[string]string, len(known))
	for _, key := range known {
		index[envName(key)] = key
	}

	return func(name string) string {
		if key, ok := index[strings.ToLower(name)]; ok {
			return key
		}

		return strings.ReplaceAll(strings.ToLower(name), "_", ".")
	}
}

// envName is the lower-cased environment spelling of a key path:
// postgres.master.userName becomes postgres_master_username.
func envName(key string) string {
	return strings.ToLower(strings.ReplaceAll(key, ".", "_"))
}

// replicasFromEnv reads POSTGRES_REPLICAS_<n>_{HOST,PORT,USERNAME,PASSWORD}
// for n = 0, 1, ... and stops at the first index without a host and port.
func replicasFromEnv(getenv func(string) string) []postgres.ConnectionConfig {
	var replicas []postgres.ConnectionConfig
	for n := 0; ; n++ {
		field := func(name string) string {
			return getenv("POSTGRES_REPLICAS_" + strconv.Itoa(n) + "_" + name)
		}

		host, port := field("HOST"), field("PORT")
		if host == "" || port == "" {
			return replicas
		}

		replicas = append(replicas, postgres.ConnectionConfig{
			Host:     host,
			Port:     port,
			UserName: field("USERNAME"),
			Password: field("PASSWORD"),
		})
	}
}
