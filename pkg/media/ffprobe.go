package media

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

var (
	ErrProbeTimeout = errors.New("media probe timed out")
	ErrNoDuration   = errors.New("media has no readable duration")
)

// Prober reports the playback duration of a media file in seconds.
type Prober interface {
	ProbeDuration(ctx context.Context, path string) (float64, error)
}

// FFprobe runs the ffprobe binary against local files.
type FFprobe struct {
	bin     string
	timeout time.Duration
}

// NewFFprobe resolves bin (a path or a name on PATH). Each probe is bounded
// by timeout.
func NewFFprobe(bin string, timeout time.Duration) (*FFprobe, error) {
	bin = strings.TrimSpace(bin)
	if bin == "" {
		bin = "ffprobe"
	}
	resolved, err := exec.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("ffprobe binary %q not found: %w", bin, err)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &FFprobe{bin: resolved, timeout: timeout}, nil
}

func (p *FFprobe) ProbeDuration(ctx context.Context, path string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.bin,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	cmd.WaitDelay = time.Second
	out, err := cmd.Output()
	if ctx.Err() == context.DeadlineExceeded {
		return 0, fmt.Errorf("%w after %s", ErrProbeTimeout, p.timeout)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return 0, fmt.Errorf("ffprobe failed: %w; stderr=%s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}
	return parseDuration(string(out))
}

func parseDuration(out string) (float64, error) {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == "N/A" {
			continue
		}
		d, err := strconv.ParseFloat(line, 64)
		if err != nil || math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
			continue
		}
		return d, nil
	}
	return 0, ErrNoDuration
}
