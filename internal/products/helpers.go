package products

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"

	"github.com/tanq16/gribdl/internal/utils"
)

// probe is the reachability check run before a listing is scraped.
func (r *Resolver) probe(ctx context.Context, link string) error {
	r.logger.Info().Str("op", "products/probe").Msgf("Checking URL: %s", link)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrUnreachable, err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", utils.ErrUnreachable, link, err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned %d", utils.ErrUnreachable, link, resp.StatusCode)
	}
	return nil
}

func (r *Resolver) fetchListing(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", utils.ErrListingFetch, err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", utils.ErrListingFetch, link, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s returned %d", utils.ErrListingFetch, link, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %v", utils.ErrListingFetch, link, err)
	}
	return string(body), nil
}

// scrape probes base, reads its index page and resolves every anchor text
// matched by pattern against base.
func (r *Resolver) scrape(ctx context.Context, base string, pattern *regexp.Regexp) ([]utils.Candidate, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("%w: bad base URL %q: %v", utils.ErrUnreachable, base, err)
	}
	if err := r.probe(ctx, base); err != nil {
		return nil, err
	}
	body, err := r.fetchListing(ctx, base)
	if err != nil {
		return nil, err
	}
	return matchFiles(body, baseURL, pattern), nil
}

func matchFiles(body string, base *url.URL, pattern *regexp.Regexp) []utils.Candidate {
	var candidates []utils.Candidate
	for _, m := range pattern.FindAllStringSubmatch(body, -1) {
		name := m[1]
		ref := &url.URL{Path: name}
		candidates = append(candidates, utils.Candidate{
			Filename: name,
			URL:      base.ResolveReference(ref).String(),
		})
	}
	return candidates
}

// RequireOK accepts any 200 response as the file itself.
func RequireOK(resp *http.Response) bool {
	return resp.StatusCode == http.StatusOK
}

// RequireAttachment is the grib filter rule: it answers 200 with an HTML
// error page for unpublished cycles, and only real extracts carry a
// Content-Disposition header.
func RequireAttachment(resp *http.Response) bool {
	return resp.StatusCode == http.StatusOK && resp.Header.Get("Content-Disposition") != ""
}
