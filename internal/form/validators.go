package form

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

// Validator checks a trimmed field value.
type Validator func(value string) error

// AsyncCheck is a slow validation (filesystem, network) that runs outside
// the UI loop. The field reports pending until its result is resolved.
type AsyncCheck func(ctx context.Context, value string) error

// Required rejects empty values.
func Required() Validator {
	return func(value string) error {
		if value == "" {
			return fmt.Errorf("value cannot be empty")
		}
		return nil
	}
}

// Pattern compiles expr and rejects non-empty values that do not match it.
func Pattern(expr string) (Validator, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", expr, err)
	}
	return func(value string) error {
		if value != "" && !re.MatchString(value) {
			return fmt.Errorf("must match %s", expr)
		}
		return nil
	}, nil
}

// MinLength rejects non-empty values shorter than n characters.
func MinLength(n int) Validator {
	return func(value string) error {
		if value != "" && utf8.RuneCountInString(value) < n {
			return fmt.Errorf("too short (min %d characters)", n)
		}
		return nil
	}
}

// MaxLength rejects values longer than n characters.
func MaxLength(n int) Validator {
	return func(value string) error {
		if utf8.RuneCountInString(value) > n {
			return fmt.Errorf("too long (max %d characters)", n)
		}
		return nil
	}
}

// OneOf rejects non-empty values outside choices.
func OneOf(choices ...string) Validator {
	return func(value string) error {
		if value != "" && !slices.Contains(choices, value) {
			return fmt.Errorf("must be one of: %s", strings.Join(choices, ", "))
		}
		return nil
	}
}

// PathExists checks that the value names an existing file or directory.
func PathExists() AsyncCheck {
	return func(ctx context.Context, value string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if value == "" {
			return nil
		}
		if _, err := os.Stat(value); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("%s does not exist", value)
			}
			return fmt.Errorf("cannot access %s: %w", value, err)
		}
		return nil
	}
}
