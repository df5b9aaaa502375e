package envconfig

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

var (
	// Set via TOKENIZER_DEBUG in the environment
	Debug bool
	// Set via TOKENIZER_TRACE in the environment
	Trace bool
	// Set via TOKENIZER_CACHE_SIZE in the environment
	CacheSize int
	// Set via TOKENIZER_MAX_CACHED_WORD_LEN in the environment
	MaxCachedWordLen int
)

type EnvVar struct {
	Name        string
	Value       any
	Description string
}

func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"TOKENIZER_DEBUG":               {"TOKENIZER_DEBUG", Debug, "Show additional debug information (e.g. TOKENIZER_DEBUG=1)"},
		"TOKENIZER_TRACE":               {"TOKENIZER_TRACE", Trace, "Log every encode and decode call"},
		"TOKENIZER_CACHE_SIZE":          {"TOKENIZER_CACHE_SIZE", CacheSize, "Maximum number of cached word encodings (default 8192)"},
		"TOKENIZER_MAX_CACHED_WORD_LEN": {"TOKENIZER_MAX_CACHED_WORD_LEN", MaxCachedWordLen, "Longest word, in bytes, the cache will store (default 15)"},
	}
}

func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}

// Clean quotes and spaces from the value
func clean(key string) string {
	return strings.Trim(os.Getenv(key), "\"' ")
}

func init() {
	LoadConfig()
}

func LoadConfig() {
	Debug = false
	Trace = false
	CacheSize = 0
	MaxCachedWordLen = 0

	if debug := clean("TOKENIZER_DEBUG"); debug != "" {
		d, err := strconv.ParseBool(debug)
		if err == nil {
			Debug = d
		} else {
			Debug = true
		}
	}

	if trace := clean("TOKENIZER_TRACE"); trace != "" {
		t, err := strconv.ParseBool(trace)
		if err == nil {
			Trace = t
		} else {
			Trace = true
		}
	}

	if size := clean("TOKENIZER_CACHE_SIZE"); size != "" {
		s, err := strconv.Atoi(size)
		if err != nil || s <= 0 {
			slog.Error("invalid setting must be greater than zero", "TOKENIZER_CACHE_SIZE", size, "error", err)
		} else {
			CacheSize = s
		}
	}

	if length := clean("TOKENIZER_MAX_CACHED_WORD_LEN"); length != "" {
		l, err := strconv.Atoi(length)
		if err != nil || l <= 0 {
			slog.Error("invalid setting must be greater than zero", "TOKENIZER_MAX_CACHED_WORD_LEN", length, "error", err)
		} else {
			MaxCachedWordLen = l
		}
	}
}
