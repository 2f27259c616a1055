// Package probe measures network throughput by timing the download of a small reference asset.
package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/abrplay/abrplay/log"
	"github.com/abrplay/abrplay/util"
)

// minElapsed bounds the divisor of the throughput formula.
const minElapsed = time.Millisecond

// ErrDisabled is returned when no reference asset is configured.
var ErrDisabled = errors.New("no reference asset configured")

// Probe times fetches of a reference asset. The asset size is looked up once with a HEAD request.
type Probe struct {
	url    string
	client *http.Client
	now    func() time.Time

	// size holds the resolved Content-Length, -1 while unknown.
	size     atomic.Int64
	resolves atomic.Bool

	logger *log.Entry
}

// New returns a probe for the given reference URL. An empty URL yields a disabled probe.
func New(referenceURL string, client *http.Client) *Probe {
	if client == nil {
		client = http.DefaultClient
	}

	p := &Probe{
		url:    referenceURL,
		client: client,
		now:    time.Now,
		logger: log.Component("probe"),
	}
	p.size.Store(-1)
	return p
}

// Enabled reports whether a reference asset is configured.
func (p *Probe) Enabled() bool {
	return p != nil && p.url != ""
}

// URL returns the configured reference asset.
func (p *Probe) URL() string {
	return p.url
}

// Reset forgets the cached asset size.
func (p *Probe) Reset() {
	p.size.Store(-1)
}

// Start launches an asynchronous measurement and reports false when the probe is disabled.
// The size lookup and the timed fetch run independently; if the fetch finishes first
// the size counts as zero. done is not called when the fetch fails.
func (p *Probe) Start(ctx context.Context, done func(kbps float64)) bool {
	if !p.Enabled() {
		return false
	}

	if p.size.Load() < 0 && p.resolves.CompareAndSwap(false, true) {
		go func() {
			defer p.resolves.Store(false)
			if _, err := p.lookupSize(ctx); err != nil {
				p.logger.Warnf("size lookup failed: %s", err)
			}
		}()
	}

	go func() {
		elapsed, err := p.timedFetch(ctx)
		if err != nil {
			p.logger.Warnf("timed fetch failed: %s", err)
			return
		}

		size := p.size.Load()
		if size < 0 {
			p.logger.Warnf("asset size unresolved after %s, estimate degrades to zero", elapsed)
			size = 0
		}

		kbps := Throughput(size, elapsed)
		p.logger.With("elapsed", elapsed.String()).Infof("measured %s", util.FormatKbps(kbps))
		done(kbps)
	}()

	return true
}

// Measure resolves the asset size first, then times one fetch.
func (p *Probe) Measure(ctx context.Context) (float64, error) {
	if !p.Enabled() {
		return 0, ErrDisabled
	}

	size, err := p.lookupSize(ctx)
	if err != nil {
		return 0, err
	}

	elapsed, err := p.timedFetch(ctx)
	if err != nil {
		return 0, err
	}

	return Throughput(size, elapsed), nil
}

// Throughput converts a transfer into kilobits per second, rounded to two decimals.
func Throughput(size int64, elapsed time.Duration) float64 {
	if elapsed < minElapsed {
		elapsed = minElapsed
	}
	return util.Round2(float64(size) * 8 / elapsed.Seconds() / 1024)
}

// BustedURL appends the cache-busting parameter to the reference URL.
func BustedURL(referenceURL string, at time.Time) string {
	stamp := strconv.FormatInt(at.UnixMilli(), 10)
	if u, err := url.Parse(referenceURL); err == nil && u.RawQuery != "" {
		return referenceURL + "&r=" + stamp
	}
	return referenceURL + "?r=" + stamp
}

func (p *Probe) lookupSize(ctx context.Context) (int64, error) {
	if size := p.size.Load(); size >= 0 {
		return size, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("head %s: %w", p.url, err)
	}
	util.Ignore(resp.Body.Close)

	if resp.StatusCode >= http.StatusBadRequest {
		return 0, fmt.Errorf("head %s: unexpected status %s", p.url, resp.Status)
	}

	length := resp.ContentLength
	if length < 0 {
		if length, err = strconv.ParseInt(resp.Header.Get("Content-Length"), 10, 64); err != nil {
			return 0, fmt.Errorf("head %s: missing content length", p.url)
		}
	}

	p.size.Store(length)
	return length, nil
}

func (p *Probe) timedFetch(ctx context.Context) (time.Duration, error) {
	start := p.now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, BustedURL(p.url, start), nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("get %s: %w", p.url, err)
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode >= http.StatusBadRequest {
		return 0, fmt.Errorf("get %s: unexpected status %s", p.url, resp.Status)
	}

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return 0, fmt.Errorf("get %s: %w", p.url, err)
	}

	return p.now().Sub(start), nil
}
