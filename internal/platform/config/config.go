// Package config reads application settings from prefix-scoped environment variables
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"crimecast/internal/platform/logger"
)

// Conf is a namespaced view over the environment, e.g. New().Prefix("CORE_PREDICTOR_")
type Conf struct{ prefix string }

// New returns the unprefixed root view
func New() Conf { return Conf{} }

// Prefix returns a child view with p appended to the current prefix
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

// Key returns the fully-qualified variable name for k
func (c Conf) Key(k string) string { return c.prefix + k }

func (c Conf) lookup(k string) string { return strings.TrimSpace(os.Getenv(c.Key(k))) }

// parse runs fn on a present value; invalid values warn and fall back to def
func parse[T any](c Conf, key string, def T, kind string, fn func(string) (T, error)) T {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	v, err := fn(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.Key(key)).Str("value", s).Interface("default", def).
			Msgf("invalid %s; using default", kind)
		return def
	}
	return v
}

// must runs fn on a required value and panics through the logger when absent or invalid
func must[T any](c Conf, key, kind string, fn func(string) (T, error)) T {
	s := c.lookup(key)
	if s == "" {
		logger.Get().Panic().Str("key", c.Key(key)).Msg("missing required env")
	}
	v, err := fn(s)
	if err != nil {
		logger.Get().Panic().Str("key", c.Key(key)).Str("value", s).Msgf("invalid %s value", kind)
	}
	return v
}

func asString(s string) (string, error) { return s, nil }

// MustString returns the value or panics when missing
func (c Conf) MustString(key string) string { return must(c, key, "string", asString) }

// MustInt returns the value or panics when missing or not an int
func (c Conf) MustInt(key string) int { return must(c, key, "int", strconv.Atoi) }

// MustDuration returns the value or panics when missing or not a duration
func (c Conf) MustDuration(key string) time.Duration {
	return must(c, key, "duration", time.ParseDuration)
}

// MayString returns the value or def
func (c Conf) MayString(key, def string) string { return parse(c, key, def, "string", asString) }

// MayInt returns the value or def; invalid input warns
func (c Conf) MayInt(key string, def int) int { return parse(c, key, def, "int", strconv.Atoi) }

// MayInt64 returns the value or def; invalid input warns
func (c Conf) MayInt64(key string, def int64) int64 {
	return parse(c, key, def, "int64", func(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) })
}

// MayFloat64 returns the value or def; invalid input warns
func (c Conf) MayFloat64(key string, def float64) float64 {
	return parse(c, key, def, "float64", func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

// MayBool returns the value or def; invalid input warns
func (c Conf) MayBool(key string, def bool) bool { return parse(c, key, def, "bool", strconv.ParseBool) }

// MayDuration returns the value or def; invalid input warns
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return parse(c, key, def, "duration", time.ParseDuration)
}

// MayCSV splits a comma-separated value, dropping blanks; def when nothing remains
func (c Conf) MayCSV(key string, def []string) []string {
	var out []string
	for _, p := range strings.Split(c.lookup(key), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayEnum returns the value when it is one of allowed (case-insensitive), def when empty, and panics otherwise
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v := c.MayString(key, def)
	if v == "" {
		return v
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return strings.ToLower(v)
		}
	}
	logger.Get().Panic().Str("key", c.Key(key)).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return ""
}
