package logging

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerPatternConfig is an instance of a level specification for a given logger.
type LoggerPatternConfig struct {
	Pattern string `json:"pattern"`
	Level   string `json:"level"`
}

const (
	// e.g. "foo".
	validLoggerSectionName = `[a-zA-Z0-9]+([_-]*[a-zA-Z0-9]+)*`
	// e.g. "foo" or "*".
	validLoggerSectionNameWithWildcard = `(` + validLoggerSectionName + `|\*)`
	// e.g. "foo.*.foo".
	validLoggerSectionsWithWildcard = validLoggerSectionNameWithWildcard + `(\.` + validLoggerSectionNameWithWildcard + `)*`
	// Restricts above regex to be the entire pattern.
	validLoggerName = `^` + validLoggerSectionsWithWildcard + `$`
)

var loggerPatternRegexp = regexp.MustCompile(validLoggerName)

// Validate ensures the pattern is well formed and the level is known.
func (lpc LoggerPatternConfig) Validate(path string) error {
	if !loggerPatternRegexp.MatchString(lpc.Pattern) {
		return errors.Errorf("%s: invalid logger pattern %q", path, lpc.Pattern)
	}
	if _, err := zapcore.ParseLevel(lpc.Level); err != nil {
		return errors.Wrapf(err, "%s: invalid level", path)
	}
	return nil
}

func buildRegexFromPattern(pattern string) string {
	var matcher strings.Builder
	matcher.WriteRune('^')
	for _, ch := range pattern {
		switch ch {
		case '*':
			matcher.WriteString(`.*`)
		case '.':
			matcher.WriteString(`\.`)
		default:
			matcher.WriteRune(ch)
		}
	}
	matcher.WriteRune('$')
	return matcher.String()
}

// LevelForName returns the level of the last pattern matching name, or def when
// nothing matches. Invalid patterns are skipped.
func LevelForName(name string, patterns []LoggerPatternConfig, def zapcore.Level) zapcore.Level {
	level := def
	for _, lpc := range patterns {
		if lpc.Validate("") != nil {
			continue
		}
		matched, err := regexp.MatchString(buildRegexFromPattern(lpc.Pattern), name)
		if err != nil || !matched {
			continue
		}
		//nolint:errcheck
		level, _ = zapcore.ParseLevel(lpc.Level)
	}
	return level
}

// Scoped returns logger named with name, raised to the level patterns resolve
// for the full logger name. Patterns can only quiet a logger; a level below the
// one logger is already enabled at has no effect.
func Scoped(logger Logger, name string, patterns []LoggerPatternConfig) Logger {
	named := logger.Named(name)
	current := zapcore.LevelOf(named.Desugar().Core())
	level := LevelForName(named.Desugar().Name(), patterns, current)
	if level <= current {
		return named
	}
	return named.Desugar().WithOptions(zap.IncreaseLevel(level)).Sugar()
}
