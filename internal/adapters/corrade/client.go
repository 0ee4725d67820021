// Package corrade implements the RemoteStore port against a Corrade bot's
// HTTP bridge. Corrade exposes Second Life inventory as form-encoded
// commands over POST; responses come back URL-encoded with
// success=True|False and an optional CSV data payload.
package corrade

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/example/curator/internal/ports/secondary"
)

// DefaultRoot is the absolute prefix every avatar inventory hangs under.
const DefaultRoot = "/My Inventory"

// Doer executes HTTP requests. *http.Client satisfies it; tests inject
// fakes.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config carries the connection settings for one Corrade bot.
type Config struct {
	URL      string
	Group    string
	Password string

	// Root is the absolute inventory prefix canonical paths hang under.
	// Defaults to DefaultRoot.
	Root string

	// RequestsPerSecond caps outbound commands; zero means unlimited.
	// This is the transport-level floor: the executor's own pacing sits
	// on top of it.
	RequestsPerSecond float64
	Burst             int

	// RetryAttempts bounds retries of transient failures per command.
	RetryAttempts int

	// Timeout is the per-request HTTP timeout. Inventory listings on
	// large trees are slow, so the default is generous.
	Timeout time.Duration
}

// Client talks to a Corrade bot and implements secondary.RemoteStore.
type Client struct {
	url        string
	group      string
	password   string
	root       []string
	httpClient Doer
	limiter    *rate.Limiter
	retries    int

	// sleep is swappable so tests do not wait out real backoff
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a Corrade client from config, applying defaults for
// unset fields.
func NewClient(cfg Config) *Client {
	if cfg.Root == "" {
		cfg.Root = DefaultRoot
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 3
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Client{
		url:        strings.TrimRight(cfg.URL, "/"),
		group:      cfg.Group,
		password:   cfg.Password,
		root:       splitSegments(cfg.Root),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, cfg.Burst),
		retries:    cfg.RetryAttempts,
		sleep:      sleepContext,
	}
}

// Ping verifies the bridge is reachable and the group credentials work.
func (c *Client) Ping(ctx context.Context) error {
	params := url.Values{}
	params.Set("command", "version")

	if _, err := c.send(ctx, params); err != nil {
		return fmt.Errorf("corrade unreachable: %w", err)
	}
	return nil
}

// ListRoot returns the immediate children of the configured root.
func (c *Client) ListRoot(ctx context.Context) ([]*secondary.RemoteEntry, error) {
	return c.listPath(ctx, c.absPath(nil), "")
}

// List returns the immediate children of a folder observed earlier,
// addressed by its remote ID so same-named siblings stay distinct.
func (c *Client) List(ctx context.Context, folderID string) ([]*secondary.RemoteEntry, error) {
	params := url.Values{}
	params.Set("command", "inventory")
	params.Set("action", "ls")
	params.Set("cache", "force")
	params.Set("item", folderID)

	result, err := c.send(ctx, params)
	if err != nil {
		return nil, err
	}

	return parseInventoryData(result["data"], folderID), nil
}

// CreateFolder creates name under parentPath and returns the new folder's
// remote ID. The remote rejects nothing on duplicate names, so an existing
// same-named folder is adopted rather than duplicated.
func (c *Client) CreateFolder(ctx context.Context, parentPath []string, name string) (string, error) {
	params := url.Values{}
	params.Set("command", "inventory")
	params.Set("action", "mkdir")
	params.Set("path", c.absPath(parentPath))
	params.Set("name", name)

	if _, err := c.send(ctx, params); err != nil {
		if !isAlreadyExists(err) {
			return "", err
		}
	}

	// The mkdir response carries no ID; find the folder in its parent.
	return c.findChildFolder(ctx, parentPath, name)
}

// MoveItem moves a single item into the destination folder.
func (c *Client) MoveItem(ctx context.Context, itemID string, destination []string) error {
	params := url.Values{}
	params.Set("command", "inventory")
	params.Set("action", "mv")
	params.Set("source", itemID)
	params.Set("path", c.absPath(destination))

	_, err := c.send(ctx, params)
	return err
}

// MoveFolderContents moves every descendant of a folder into destination,
// recreating subfolder structure as it goes. The remote offers no atomic
// folder move, so each item moves individually and the emptied source
// folders stay behind for manual cleanup.
func (c *Client) MoveFolderContents(ctx context.Context, folderID string, destination []string) (int, error) {
	type job struct {
		folderID string
		dest     []string
	}

	moved := 0
	worklist := []job{{folderID: folderID, dest: destination}}

	for len(worklist) > 0 {
		j := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		entries, err := c.List(ctx, j.folderID)
		if err != nil {
			return moved, err
		}

		for _, entry := range entries {
			if entry.Folder {
				if _, err := c.CreateFolder(ctx, j.dest, entry.Name); err != nil {
					return moved, err
				}
				childDest := append(append([]string{}, j.dest...), entry.Name)
				worklist = append(worklist, job{folderID: entry.ID, dest: childDest})
				continue
			}

			if err := c.MoveItem(ctx, entry.ID, j.dest); err != nil {
				return moved, err
			}
			moved++
		}
	}

	return moved, nil
}

// ResolveFolderID returns the remote ID of the folder at path, or empty
// when no such folder exists. The ID comes from the parent's listing;
// with same-named siblings the first listed wins.
func (c *Client) ResolveFolderID(ctx context.Context, path []string) (string, error) {
	if len(path) == 0 {
		return "", &Error{Action: "ls", Path: c.absPath(nil), Kind: KindRejected,
			Err: errors.New("the inventory root has no resolvable ID")}
	}

	parent := path[:len(path)-1]
	leaf := path[len(path)-1]

	entries, err := c.listPath(ctx, c.absPath(parent), "")
	if err != nil {
		// A missing parent means the folder cannot exist either.
		if isNotFound(err) {
			return "", nil
		}
		return "", err
	}

	for _, entry := range entries {
		if entry.Folder && strings.EqualFold(entry.Name, leaf) {
			return entry.ID, nil
		}
	}

	return "", nil
}

// listPath lists a folder addressed by absolute path. Used for the root
// and for existence probes where no ID is known yet.
func (c *Client) listPath(ctx context.Context, path, parentID string) ([]*secondary.RemoteEntry, error) {
	params := url.Values{}
	params.Set("command", "inventory")
	params.Set("action", "ls")
	params.Set("cache", "force")
	params.Set("path", path)

	result, err := c.send(ctx, params)
	if err != nil {
		return nil, err
	}

	return parseInventoryData(result["data"], parentID), nil
}

// findChildFolder returns the ID of the first child folder of parentPath
// whose name folds equal to name.
func (c *Client) findChildFolder(ctx context.Context, parentPath []string, name string) (string, error) {
	entries, err := c.listPath(ctx, c.absPath(parentPath), "")
	if err != nil {
		return "", err
	}

	for _, entry := range entries {
		if entry.Folder && strings.EqualFold(entry.Name, name) {
			return entry.ID, nil
		}
	}

	return "", &Error{
		Action: "mkdir",
		Path:   c.absPath(append(parentPath, name)),
		Kind:   KindUnavailable,
		Err:    errors.New("created folder did not appear in parent listing"),
	}
}

// send posts one command and decodes the response, retrying transient
// failures with exponential backoff. The shared limiter spaces commands
// regardless of caller concurrency.
func (c *Client) send(ctx context.Context, params url.Values) (map[string]string, error) {
	action := params.Get("action")
	if action == "" {
		action = params.Get("command")
	}
	pathHint := params.Get("path")

	params.Set("group", c.group)
	params.Set("password", c.password)
	body := params.Encode()

	var lastErr *Error
	var delay time.Duration

	for attempt := 0; attempt < c.retries; attempt++ {
		if attempt > 0 {
			if err := c.sleep(ctx, delay); err != nil {
				return nil, err
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = &Error{Action: action, Path: pathHint, Kind: KindUnavailable, Err: err}
			delay = backoffDelay(attempt)
			continue
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = &Error{Action: action, Path: pathHint, Kind: KindUnavailable, Err: readErr}
			delay = backoffDelay(attempt)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			lastErr = &Error{Action: action, Path: pathHint, Kind: KindThrottled,
				Err: errors.New("remote throttled the request")}
			delay = retryAfter(resp)
			continue
		case resp.StatusCode >= 500:
			lastErr = &Error{Action: action, Path: pathHint, Kind: KindUnavailable,
				Err: fmt.Errorf("status %d", resp.StatusCode)}
			delay = backoffDelay(attempt)
			continue
		case resp.StatusCode != http.StatusOK:
			return nil, &Error{Action: action, Path: pathHint, Kind: KindRejected,
				Err: fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))}
		}

		result := parseResponse(string(respBody))
		if !strings.EqualFold(result["success"], "true") {
			msg := result["error"]
			if msg == "" {
				msg = "command failed with no error detail"
			}
			return nil, &Error{Action: action, Path: pathHint, Kind: KindRejected, Err: errors.New(msg)}
		}

		return result, nil
	}

	return nil, fmt.Errorf("corrade %s: retries exhausted: %w", action, lastErr)
}

// absPath composes the absolute remote path for canonical segments.
// Composition is always segment-based; concatenating two already-rooted
// strings is how doubled-root paths happen.
func (c *Client) absPath(segments []string) string {
	all := make([]string, 0, len(c.root)+len(segments))
	all = append(all, c.root...)
	all = append(all, segments...)
	return "/" + strings.Join(all, "/")
}

// backoffDelay grows 500ms, 1s, 2s with jitter so concurrent retries do
// not stampede the bridge.
func backoffDelay(attempt int) time.Duration {
	delay := 500 * time.Millisecond << uint(attempt)
	return delay + time.Duration(rand.Int63n(int64(250*time.Millisecond)))
}

// retryAfter reads the standard throttle header, defaulting to one second.
func retryAfter(resp *http.Response) time.Duration {
	if s := resp.Header.Get("Retry-After"); s != "" {
		if sec, err := strconv.Atoi(s); err == nil && sec > 0 {
			return time.Duration(sec) * time.Second
		}
	}
	return time.Second
}

func isAlreadyExists(err error) bool {
	var cerr *Error
	return errors.As(err, &cerr) && strings.Contains(strings.ToLower(cerr.Err.Error()), "already exists")
}

func isNotFound(err error) bool {
	var cerr *Error
	if !errors.As(err, &cerr) || cerr.Kind != KindRejected {
		return false
	}
	msg := strings.ToLower(cerr.Err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "no such")
}

func splitSegments(path string) []string {
	var segments []string
	for _, s := range strings.Split(strings.Trim(path, "/"), "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Ensure Client implements the interface
var _ secondary.RemoteStore = (*Client)(nil)
