// Package hooks runs the shell commands a wizard declares for when it
// finishes.
package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/stepr/internal/logger"
)

// Variables holds the values that can be expanded in hook commands.
type Variables struct {
	Wizard string
	Values map[string]string // keyed by field name
}

// Validate reports hooks with an empty command or a negative timeout.
func (h Hooks) Validate() error {
	var errs []error
	for i, hook := range h.OnFinish {
		switch {
		case hook == nil || strings.TrimSpace(hook.Command) == "":
			errs = append(errs, fmt.Errorf("on_finish hook %d: command cannot be empty", i+1))
		case hook.Timeout < 0:
			errs = append(errs, fmt.Errorf("on_finish hook %d: timeout must be >= 0", i+1))
		}
	}
	return errors.Join(errs...)
}

// Execute runs a hook command and returns its output.
// {{wizard}} and {{<field name>}} placeholders are expanded before execution
// and every value is also exported as STEPR_<FIELD NAME>.
// On failure the error is folded into the output and nil is returned; only a
// cancelled ctx is reported as an error.
func Execute(ctx context.Context, hook *Hook, workDir string, vars Variables) (string, error) {
	if hook == nil || hook.Command == "" {
		return "", nil
	}

	command := expandVariables(hook.Command, vars)
	logger.Debug("Executing hook command: %s", command)

	timeout := hook.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	execCtx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
	defer cancel()

	cmd := exec.CommandContext(execCtx, "sh", "-c", command)
	cmd.Dir = workDir
	cmd.Env = append(os.Environ(), environ(vars)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	if execCtx.Err() == context.DeadlineExceeded {
		logger.Warn("Hook command timed out after %ds: %s", timeout, command)
		return fmt.Sprintf("[Hook timed out after %ds]\nPartial output:\n%s", timeout, stdout.String()), nil
	}

	if err != nil {
		logger.Warn("Hook command failed: %v", err)
		output := stdout.String()
		if stderr.Len() > 0 {
			output += "\n[stderr]\n" + stderr.String()
		}
		return fmt.Sprintf("[Hook command failed: %v]\n%s", err, output), nil
	}

	output := stdout.String()
	if stderr.Len() > 0 {
		logger.Debug("Hook stderr: %s", stderr.String())
		output += "\n[stderr]\n" + stderr.String()
	}

	logger.Debug("Hook executed successfully, output length: %d bytes", len(output))
	return output, nil
}

// ExecuteAllPiped runs hooks in order and joins the output of those with
// PipeOutput set, separated by blank lines.
func ExecuteAllPiped(ctx context.Context, hooks []*Hook, workDir string, vars Variables) (string, error) {
	var parts []string
	for _, hook := range hooks {
		out, err := Execute(ctx, hook, workDir, vars)
		if err != nil {
			return "", err
		}
		if hook.PipeOutput && out != "" {
			parts = append(parts, out)
		}
	}
	return strings.Join(parts, "\n"), nil
}

func expandVariables(command string, vars Variables) string {
	pairs := []string{"{{wizard}}", vars.Wizard}
	for _, name := range sortedNames(vars.Values) {
		pairs = append(pairs, "{{"+name+"}}", vars.Values[name])
	}
	return strings.NewReplacer(pairs...).Replace(command)
}

func environ(vars Variables) []string {
	env := []string{"STEPR_WIZARD=" + vars.Wizard}
	for _, name := range sortedNames(vars.Values) {
		env = append(env, "STEPR_"+envName(name)+"="+vars.Values[name])
	}
	return env
}

func envName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, name)
}

func sortedNames(m map[string]string) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
