package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"github.com/solosoyfranco/LibrAIry/internal/config"
	"github.com/solosoyfranco/LibrAIry/internal/services/llm"
)

func pass(name, detail string) Result {
	return Result{Name: name, Passed: true, Detail: detail}
}

func fail(name, detail string) Result {
	return Result{Name: name, Detail: detail}
}

// CheckDirectoryAccess verifies that the directory exists and is readable
// and writable. Moves out of a directory need write permission on the
// directory itself, so sources and destinations get the same check.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		return fail(name, path+": does not exist")
	case err != nil:
		return fail(name, fmt.Sprintf("%s: stat: %v", path, err))
	case !info.IsDir():
		return fail(name, path+": not a directory")
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return fail(name, fmt.Sprintf("%s: permission denied (%v)", path, err))
	}
	return pass(name, path+": read/write ok")
}

// CheckFreeSpace verifies that the volume holding path has at least minGiB
// of space available to unprivileged writes.
func CheckFreeSpace(name, path string, minGiB int) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return fail(name, fmt.Sprintf("%s: statfs: %v", path, err))
	}
	freeGiB := float64(stat.Bavail*uint64(stat.Bsize)) / (1 << 30)
	if freeGiB < float64(minGiB) {
		return fail(name, fmt.Sprintf("%.1f GiB free, need %d GiB", freeGiB, minGiB))
	}
	return pass(name, fmt.Sprintf("%.1f GiB free", freeGiB))
}

// CheckLLM verifies that the classifier API is reachable and the key is
// valid. It uses a 30-second timeout and a single attempt (no retries).
// The check is optional: an unreachable classifier means rule-based
// fallback, not a blocked run.
func CheckLLM(ctx context.Context, name string, cfg config.LLMConfig) Result {
	result := Result{Name: name, Optional: true}
	if cfg.APIKey == "" {
		result.Detail = "API key missing"
		return result
	}

	probeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client := llm.NewClient(llm.Config{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
		Referer: cfg.Referer,
		Title:   cfg.Title,
	}, llm.WithRetryMaxAttempts(1))

	if err := client.HealthCheck(probeCtx); err != nil {
		result.Detail = summarizeLLMError(err)
		return result
	}
	result.Passed = true
	result.Detail = "API reachable"
	return result
}

// summarizeLLMError produces a human-readable summary for classifier health
// check failures.
func summarizeLLMError(err error) string {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "health check timed out (LLM API unresponsive)"
	case errors.As(err, &netErr) && netErr.Timeout():
		return "health check timed out (LLM API unreachable)"
	}
	return err.Error()
}
