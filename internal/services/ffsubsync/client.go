package ffsubsync

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"subsync/internal/services"
)

// InstallHint is included in errors when the ffsubsync binary is missing.
const InstallHint = "install with 'pipx install ffsubsync' or 'pip install ffsubsync'"

// DefaultBinary is the conventional ffsubsync executable name.
const DefaultBinary = "ffsubsync"

// Options captures invocation settings for the external synchronizer.
type Options struct {
	// Binary overrides the executable name.
	Binary string
	// GoldenSection passes --gss to enable golden-section search.
	GoldenSection bool
	// Timeout bounds a single run. Zero means no deadline; callers needing
	// bounded latency set this or supply a context deadline.
	Timeout time.Duration
}

// CommandRunner executes an external command and returns its combined output.
// Tests substitute a fake so no subprocess is ever spawned.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Client drives the external ffsubsync tool.
type Client struct {
	opts   Options
	runner CommandRunner
	lookup func(string) (string, error)
}

// NewClient constructs a client for the external synchronizer.
func NewClient(opts Options) *Client {
	if strings.TrimSpace(opts.Binary) == "" {
		opts.Binary = DefaultBinary
	}
	return &Client{opts: opts, lookup: exec.LookPath}
}

// WithCommandRunner sets a custom command runner (for testing).
func (c *Client) WithCommandRunner(runner CommandRunner) {
	c.runner = runner
}

// WithLookPath sets a custom binary lookup (for testing).
func (c *Client) WithLookPath(lookup func(string) (string, error)) {
	c.lookup = lookup
}

// Binary returns the executable name the client invokes.
func (c *Client) Binary() string {
	return c.opts.Binary
}

// Available reports whether the ffsubsync binary can be found on PATH.
func (c *Client) Available() error {
	if _, err := c.lookup(c.opts.Binary); err != nil {
		return services.Wrap(services.ErrExternalTool, "sync", "locate binary",
			fmt.Sprintf("%s not installed (%s)", c.opts.Binary, InstallHint), err)
	}
	return nil
}

// Sync aligns subtitle timing against the video's audio track, writing the
// result to output. The call blocks until the external process exits; a
// non-zero exit surfaces as an external tool error carrying the captured
// diagnostic output.
func (c *Client) Sync(ctx context.Context, video, subtitle, output string) error {
	if video == "" || subtitle == "" || output == "" {
		return services.Wrap(services.ErrValidation, "sync", "invoke", "video, subtitle, and output paths are required", nil)
	}
	if err := c.Available(); err != nil {
		return err
	}

	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	args := []string{video, "-i", subtitle, "-o", output}
	if c.opts.GoldenSection {
		args = append(args, "--gss")
	}

	combined, err := c.run(ctx, c.opts.Binary, args...)
	if err != nil {
		detail := strings.TrimSpace(string(combined))
		if detail == "" {
			detail = "no diagnostic output"
		}
		return services.Wrap(services.ErrExternalTool, "sync", "invoke",
			fmt.Sprintf("%s failed: %s", c.opts.Binary, detail), err)
	}
	return nil
}

func (c *Client) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if c.runner != nil {
		return c.runner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}
