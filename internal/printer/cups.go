package printer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"
)

// CUPS talks to a local cupsd through lp and lpstat. The queue name is
// resolved once at construction time using the profile's primary name
// and fallback chain.
type CUPS struct {
	queue   string
	profile Profile
	log     *slog.Logger
}

// NewCUPS discovers the profile's queue among the queues cupsd knows
// and returns a printer bound to it. It fails when no queue matches.
func NewCUPS(ctx context.Context, profile Profile) (*CUPS, error) {
	queues, err := listQueues(ctx)
	if err != nil {
		return nil, fmt.Errorf("list CUPS queues: %w", err)
	}

	queue, ok := findQueue(queues, profile)
	if !ok {
		return nil, fmt.Errorf("printer %q not found in CUPS (available: %s)",
			profile.PrimaryName, strings.Join(queues, ", "))
	}

	log := slog.Default().With("component", "cups", "queue", queue)
	log.Info("printer connected")
	return &CUPS{queue: queue, profile: profile, log: log}, nil
}

// listQueues parses `lpstat -p` output into queue names.
func listQueues(ctx context.Context) ([]string, error) {
	out, err := exec.CommandContext(ctx, "lpstat", "-p").Output()
	if err != nil {
		return nil, err
	}
	return parseQueues(string(out)), nil
}

// parseQueues extracts queue names from lpstat -p output. Lines look
// like "printer DNP_DS620_Photo is idle.  enabled since ...".
func parseQueues(out string) []string {
	var queues []string
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == "printer" {
			queues = append(queues, fields[1])
		}
	}
	sort.Strings(queues)
	return queues
}

// findQueue resolves a profile to a concrete queue name. The primary
// name is tried exactly, then each fallback exactly, case-insensitively
// and finally as a substring.
func findQueue(queues []string, profile Profile) (string, bool) {
	for _, q := range queues {
		if q == profile.PrimaryName {
			return q, true
		}
	}
	for _, name := range profile.FallbackNames {
		for _, q := range queues {
			if q == name {
				return q, true
			}
		}
		for _, q := range queues {
			if strings.EqualFold(q, name) {
				return q, true
			}
		}
		for _, q := range queues {
			if strings.Contains(q, name) {
				return q, true
			}
		}
	}
	return "", false
}

// Print submits the job with lp and returns the CUPS job ID.
func (c *CUPS) Print(ctx context.Context, job Job) (string, error) {
	if _, err := os.Stat(job.FilePath); err != nil {
		return "", fmt.Errorf("print file: %w", err)
	}
	// cupsd runs as its own user and must be able to read the file.
	if err := os.Chmod(job.FilePath, 0o644); err != nil {
		c.log.Warn("could not loosen file permissions", "path", job.FilePath, "err", err)
	}

	copies := job.Copies
	if copies < 1 {
		copies = 1
	}
	jobName := "PhotoBooth-" + time.Now().UTC().Format("20060102-150405")

	args := []string{
		"-d", c.queue,
		"-n", fmt.Sprint(copies),
		"-t", jobName,
		"-o", "PageSize=" + c.profile.paperSizeOption(job.Paper),
		"-o", "Resolution=" + c.profile.resolutionOption(job.Quality),
	}
	for _, key := range sortedKeys(c.profile.Options) {
		args = append(args, "-o", key+"="+c.profile.Options[key])
	}
	args = append(args, job.FilePath)

	c.log.Info("submitting print job", "file", job.FilePath, "copies", copies)
	out, err := exec.CommandContext(ctx, "lp", args...).Output()
	if err != nil {
		return "", fmt.Errorf("lp: %w", err)
	}

	id, err := parseJobID(string(out))
	if err != nil {
		return "", err
	}
	c.log.Info("print job submitted", "job_id", id)
	return id, nil
}

// parseJobID extracts the job identifier from lp's confirmation line,
// "request id is DNP_DS620_Photo-42 (1 file(s))".
func parseJobID(out string) (string, error) {
	fields := strings.Fields(out)
	for i, f := range fields {
		if f == "is" && i > 0 && fields[i-1] == "id" && i+1 < len(fields) {
			return fields[i+1], nil
		}
	}
	return "", fmt.Errorf("no job id in lp output %q", strings.TrimSpace(out))
}

// Ready reports whether the queue is enabled and accepting jobs.
func (c *CUPS) Ready(ctx context.Context) bool {
	out, err := exec.CommandContext(ctx, "lpstat", "-p", c.queue).Output()
	if err != nil {
		return false
	}
	s := string(out)
	return !strings.Contains(s, "disabled") && !strings.Contains(s, "not accepting")
}

// Status reports queue health. CUPS exposes no paper or toner levels
// for these drivers, so only the online flag is populated.
func (c *CUPS) Status(ctx context.Context) (Status, error) {
	if !c.Ready(ctx) {
		msg := "queue disabled or not accepting jobs"
		return Status{Online: false, Error: &msg}, nil
	}
	return Status{Online: true}, nil
}

// Name describes the connected device.
func (c *CUPS) Name() string {
	switch {
	case strings.Contains(c.profile.PrimaryName, "DNP"):
		return "DNP DS620 Photo Printer"
	case strings.Contains(c.profile.PrimaryName, "XP8700"),
		strings.Contains(c.profile.PrimaryName, "XP-8700"):
		return "Epson XP-8700 (TurboPrint)"
	default:
		return "CUPS Printer"
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
