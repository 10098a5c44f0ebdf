package parsers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// waitDelay bounds how long Parse waits for the child's output pipes to close
// after the child has been killed.
const waitDelay = 2 * time.Second

// ExternalParser runs a user-registered script as a child process:
//
//	<command...> <script path> <input path>
//
// The script must exit 0 and print a single ParseOutcome JSON document on
// stdout. A non-zero exit is reported with the script's stderr.
type ExternalParser struct {
	desc    Descriptor
	timeout time.Duration
}

// NewExternalParser validates that the script exists and returns a parser for
// it. The check only happens here; the script may still disappear later.
// defaultTimeout applies when the descriptor has no timeout of its own.
func NewExternalParser(desc Descriptor, defaultTimeout time.Duration) (*ExternalParser, error) {
	if strings.TrimSpace(desc.Name) == "" {
		return nil, newError(ErrInvalidFormat, nil, "parser name is required")
	}
	if strings.TrimSpace(desc.Path) == "" {
		return nil, newError(ErrFileRead, nil, "parser %q has no script path", desc.Name)
	}

	abs, err := filepath.Abs(desc.Path)
	if err != nil {
		return nil, newError(ErrFileRead, err, "resolving script path %s", desc.Path)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, newError(ErrFileRead, err, "script not found: %s", desc.Path)
	}
	if info.IsDir() {
		return nil, newError(ErrFileRead, nil, "script path is a directory: %s", desc.Path)
	}

	desc.Kind = KindExternal
	desc.Path = abs
	desc.SupportedFormats = append([]string(nil), desc.SupportedFormats...)
	desc.Command = append([]string(nil), desc.Command...)

	timeout := desc.Timeout()
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &ExternalParser{desc: desc, timeout: timeout}, nil
}

func (p *ExternalParser) Name() string {
	return p.desc.Name
}

func (p *ExternalParser) SupportedFormats() []string {
	return append([]string(nil), p.desc.SupportedFormats...)
}

func (p *ExternalParser) Describe() Descriptor {
	d := p.desc
	d.SupportedFormats = p.SupportedFormats()
	d.Command = append([]string(nil), p.desc.Command...)
	return d
}

// Timeout returns the effective wait limit for one run; zero means none.
func (p *ExternalParser) Timeout() time.Duration {
	return p.timeout
}

func (p *ExternalParser) Parse(ctx context.Context, inputPath string) (*ParseOutcome, error) {
	input, err := filepath.Abs(inputPath)
	if err != nil {
		return nil, newError(ErrFileRead, err, "resolving input path %s", inputPath)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	argv := append(append([]string(nil), p.desc.Command...), p.desc.Path, input)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = filepath.Dir(p.desc.Path)
	cmd.Stdin = nil
	cmd.WaitDelay = waitDelay
	killProcessGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return nil, newError(ErrExternalProcess, ctxErr, "parser %q timed out after %s", p.desc.Name, p.timeout)
		}
		return nil, newError(ErrExternalProcess, ctxErr, "parser %q was cancelled", p.desc.Name)
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return nil, &Error{
				Kind: ErrExternalProcess,
				Msg:  fmt.Sprintf("parser %q exited with status %d: %s", p.desc.Name, exitErr.ExitCode(), stderr.String()),
			}
		}
		return nil, newError(ErrExternalProcess, runErr, "failed to run parser %q", p.desc.Name)
	}

	var outcome ParseOutcome
	if err := json.Unmarshal(stdout.Bytes(), &outcome); err != nil {
		return nil, newError(ErrInvalidFormat, err, "failed to decode output of parser %q", p.desc.Name)
	}

	return normalizeOutcome(&outcome), nil
}

// normalizeOutcome moves records without a link into Failed. The Failed list
// reported by the script is kept as it is.
func normalizeOutcome(outcome *ParseOutcome) *ParseOutcome {
	result := &ParseOutcome{
		Successful: make([]ParsedRecord, 0, len(outcome.Successful)),
		Failed:     append([]ParseFailure{}, outcome.Failed...),
	}

	for i, record := range outcome.Successful {
		if strings.TrimSpace(record.Link) == "" {
			title := ""
			if record.Title != nil {
				title = *record.Title
			}
			result.Failed = append(result.Failed, ParseFailure{
				SourceIndex:  i,
				SourceTitle:  title,
				ErrorMessage: "record has no link",
			})
			continue
		}
		if record.Tags == nil {
			record.Tags = []string{}
		}
		result.Successful = append(result.Successful, record)
	}

	return result
}
