package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"copydesk/internal/store"
)

// HealthChecker is the store surface the database check needs.
type HealthChecker interface {
	CheckHealth(ctx context.Context) (store.DatabaseHealth, error)
}

// CheckDatabase verifies the store is reachable and its schema is current.
func CheckDatabase(ctx context.Context, db HealthChecker) Result {
	const name = "Database"

	if db == nil {
		return Result{Name: name, Detail: "store not opened"}
	}
	health, err := db.CheckHealth(ctx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s %s (error: %v)", health.Driver, health.Location, err)}
	}
	if health.SchemaVersion != health.ExpectedVersion {
		return Result{Name: name, Detail: fmt.Sprintf("schema version %d, expected %d", health.SchemaVersion, health.ExpectedVersion)}
	}
	return Result{
		Name:   name,
		Passed: true,
		Detail: fmt.Sprintf("%s %s (%d articles, %d transitions)", health.Driver, health.Location, health.ItemCount, health.RecordCount),
	}
}

// CheckNtfy verifies the ntfy topic answers a poll request. It does not
// publish anything.
func CheckNtfy(ctx context.Context, topicURL string) Result {
	const name = "ntfy"

	base := strings.TrimRight(strings.TrimSpace(topicURL), "/")
	if base == "" {
		return Result{Name: name, Detail: "missing topic url"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, base+"/json?poll=1&since=none", nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("reachability check failed (%v)", err)}
	}

	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: name, Detail: summarizeNetError(err)}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return Result{Name: name, Passed: true, Detail: "Reachable"}
	case http.StatusUnauthorized, http.StatusForbidden:
		return Result{Name: name, Detail: "topic requires authentication"}
	default:
		return Result{Name: name, Detail: fmt.Sprintf("reachability check failed (%d)", resp.StatusCode)}
	}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

func summarizeNetError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "check timed out (server unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "check timed out (server unreachable)"
	}
	return err.Error()
}
