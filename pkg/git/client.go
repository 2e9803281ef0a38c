// Package git wraps the git executable for versioned vaults.
package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// DefaultLockName is the lock file created in the work tree while a write is in progress.
const DefaultLockName = ".questvault.lock"

// ErrLockTimeout is returned when the lock could not be acquired before the context ended.
var ErrLockTimeout = errors.New("timed out waiting for vault lock")

// Client wraps git command execution with a file-based lock for process safety.
type Client struct {
	WorkDir  string
	Logger   *slog.Logger
	lockPath string
}

// NewClient creates a new git client for the given working directory.
// An empty lockName selects DefaultLockName.
func NewClient(workDir, lockName string, logger *slog.Logger) *Client {
	if lockName == "" {
		lockName = DefaultLockName
	}
	return &Client{
		WorkDir:  workDir,
		Logger:   logger,
		lockPath: lockName,
	}
}

// IsInstalled checks if git is available in the system path.
func IsInstalled() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// IsRepo reports whether the work dir has a .git directory.
func (c *Client) IsRepo() bool {
	info, err := os.Stat(filepath.Join(c.WorkDir, ".git"))
	return err == nil && info.IsDir()
}

// Lock acquires the file-based lock, polling until it is free or ctx is done.
func (c *Client) Lock(ctx context.Context) (func(), error) {
	fullLockPath := filepath.Join(c.WorkDir, c.lockPath)

	for {
		f, err := os.OpenFile(fullLockPath, os.O_CREATE|os.O_EXCL, 0666)
		if err == nil {
			f.Close()
			return func() {
				os.Remove(fullLockPath)
			}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to acquire lock: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrLockTimeout, ctx.Err())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// Run executes a raw git command in the working directory.
// It does NOT acquire the lock; callers serialize writes with Lock.
func (c *Client) Run(ctx context.Context, args ...string) (string, error) {
	if c.Logger != nil {
		c.Logger.Debug("executing git", "args", args, "dir", c.WorkDir)
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.WorkDir

	out, err := cmd.CombinedOutput()
	output := string(out)
	if err != nil {
		return output, fmt.Errorf("git %s failed: %w\nOutput: %s", args[0], err, output)
	}
	return strings.TrimSpace(output), nil
}

// Init initializes a new git repository. Re-running it is safe.
func (c *Client) Init(ctx context.Context) error {
	_, err := c.Run(ctx, "init")
	return err
}

// Add adds files to the stage.
func (c *Client) Add(ctx context.Context, files ...string) error {
	if len(files) == 0 {
		return nil
	}
	_, err := c.Run(ctx, append([]string{"add", "--"}, files...)...)
	return err
}

// Rm removes files from the working tree and from the index.
func (c *Client) Rm(ctx context.Context, files ...string) error {
	if len(files) == 0 {
		return nil
	}
	_, err := c.Run(ctx, append([]string{"rm", "-f", "--"}, files...)...)
	return err
}

// HasStagedChanges reports whether the index differs from HEAD.
func (c *Client) HasStagedChanges(ctx context.Context) (bool, error) {
	cmd := exec.CommandContext(ctx, "git", "diff", "--cached", "--quiet")
	cmd.Dir = c.WorkDir
	err := cmd.Run()
	if err == nil {
		return false, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return true, nil
	}
	return false, fmt.Errorf("git diff failed: %w", err)
}

// Commit records staged changes. Nothing staged is not an error: no commit is made.
func (c *Client) Commit(ctx context.Context, msg string) error {
	changed, err := c.HasStagedChanges(ctx)
	if err != nil {
		return err
	}
	if !changed {
		if c.Logger != nil {
			c.Logger.Debug("nothing to commit", "message", msg)
		}
		return nil
	}
	args := []string{"commit", "-m", msg}
	if email, _ := c.Run(ctx, "config", "user.email"); email == "" {
		// No identity configured (CI, fresh containers): commit as the tool.
		args = append([]string{"-c", "user.name=questvault", "-c", "user.email=questvault@localhost"}, args...)
	}
	_, err = c.Run(ctx, args...)
	return err
}

// Status returns the porcelain status of the repo.
func (c *Client) Status(ctx context.Context) (string, error) {
	return c.Run(ctx, "status", "--porcelain")
}

// HasRemote reports whether any remote is configured.
func (c *Client) HasRemote(ctx context.Context) bool {
	out, err := c.Run(ctx, "remote")
	return err == nil && out != ""
}

// Sync pulls with rebase and pushes to the configured upstream.
func (c *Client) Sync(ctx context.Context) error {
	if !c.HasRemote(ctx) {
		return fmt.Errorf("no remote configured")
	}
	if _, err := c.Run(ctx, "pull", "--rebase"); err != nil {
		return err
	}
	_, err := c.Run(ctx, "push")
	return err
}
