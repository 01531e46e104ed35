package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/aretw0/mosaic/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "MOSAIC_"

// Load reads path (YAML, or JSON when the extension is .json) over the
// defaults, then applies environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := Decode(data, filepath.Ext(path), &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode merges a YAML or JSON document into cfg. Keys absent from the
// document keep their current values; lists replace the current list.
func Decode(data []byte, ext string, cfg *Config) error {
	raw := map[string]any{}
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return err
		}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		ZeroFields:       true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			hexColorHook,
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

var rgbType = reflect.TypeOf(domain.RGB{})

// hexColorHook turns "#rrggbb" strings into domain.RGB.
func hexColorHook(from, to reflect.Type, data any) (any, error) {
	if to != rgbType || from.Kind() != reflect.String {
		return data, nil
	}
	return domain.ParseRGB(data.(string))
}

// ApplyEnv overrides cfg with MOSAIC_* variables found through lookup.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"SERVER_ADDR":             &cfg.Server.Addr,
		"REDIS_ADDR":              &cfg.Redis.Addr,
		"REDIS_PASSWORD":          &cfg.Redis.Password,
		"CACHE_BACKEND":           &cfg.Cache.Backend,
		"SECRETS_BACKEND":         &cfg.Secrets.Backend,
		"LOG_LEVEL":               &cfg.Log.Level,
		"LOG_FORMAT":              &cfg.Log.Format,
		"DICTIONARY_URL":          &cfg.Dictionary.BaseURL,
		"MERRIAM_WEBSTER_API_KEY": &cfg.Dictionary.APIKey,
	}
	for name, dst := range str {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"MAX_INPUT_SIZE": &cfg.Server.MaxInputSize,
		"REDIS_DB":       &cfg.Redis.DB,
	}
	for name, dst := range ints {
		v, ok := lookup(EnvPrefix + name)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, name, err)
		}
		*dst = n
	}
	return nil
}
