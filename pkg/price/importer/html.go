package importer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"agri/pkg/apperr"
	"agri/pkg/price/service"
)

// ParseHTMLTable reads the first <table> of a page. Header cells come from
// <th> when present, otherwise from the first row.
func ParseHTMLTable(body []byte, needCrop bool) ([]service.ImportRow, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, apperr.Invalid("url", "page is not valid HTML")
	}
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, apperr.Invalid("url", "page has no table")
	}

	var head []string
	var records [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		if th := tr.Find("th"); th.Length() > 0 && head == nil {
			head = cellTexts(th)
			return
		}
		cells := cellTexts(tr.Find("td"))
		if len(cells) == 0 {
			return
		}
		if head == nil {
			head = cells
			return
		}
		records = append(records, cells)
	})
	if head == nil {
		return nil, apperr.Invalid("url", "table has no header row")
	}
	return toRows(head, records, needCrop)
}

func cellTexts(sel *goquery.Selection) []string {
	out := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.Join(strings.Fields(s.Text()), " "))
	})
	return out
}

// Fetcher downloads price bulletin pages from allow-listed hosts.
type Fetcher struct {
	client   *http.Client
	allow    map[string]bool
	maxBytes int
}

func NewFetcher(allowedHosts []string, maxBytes int, timeout time.Duration) *Fetcher {
	allow := map[string]bool{}
	for _, h := range allowedHosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			allow[h] = true
		}
	}
	if maxBytes <= 0 {
		maxBytes = 1500000
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Fetcher{client: &http.Client{Timeout: timeout}, allow: allow, maxBytes: maxBytes}
}

func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, apperr.Invalid("url", "must be an absolute http(s) URL")
	}
	if !f.allow[strings.ToLower(u.Hostname())] {
		return nil, apperr.Invalid("url", "domain not allowed")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, apperr.Invalid("url", "cannot build request")
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, apperr.Infra(err, "fetch %s", u.Host)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperr.Infra(fmt.Errorf("status %d", resp.StatusCode), "fetch %s", u.Host)
	}
	if resp.ContentLength > int64(f.maxBytes) {
		return nil, apperr.Invalid("url", "page too large")
	}
	ct := strings.ToLower(resp.Header.Get("Content-Type"))
	if !strings.Contains(ct, "text/html") {
		return nil, apperr.Invalid("url", "unsupported content-type: "+ct)
	}
	limited := io.LimitedReader{R: resp.Body, N: int64(f.maxBytes) + 1}
	b, err := io.ReadAll(&limited)
	if err != nil {
		return nil, apperr.Infra(err, "read %s", u.Host)
	}
	if len(b) > f.maxBytes {
		return nil, apperr.Invalid("url", "page too large")
	}
	return b, nil
}
