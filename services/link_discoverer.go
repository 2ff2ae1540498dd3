package services

import (
	"context"
	"log"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/studiopixelbloomcreations/Tutor---AI-Made-for-Studying/model"
)

// Crawl caps. The source site nests term pages under subject pages, so one
// extra hop from the seed is enough; anything deeper just burns requests.
const (
	maxSubjectPages   = 6
	maxChildPages     = 6
	defaultMaxLinks   = 6
	subjectScoreBonus = 2
	termScoreBonus    = 1
)

// HTMLFetcher fetches a page body as text.
type HTMLFetcher interface {
	FetchHTML(ctx context.Context, url string) (string, error)
}

// CrawlStats counts page outcomes for one discovery run. Failures on
// non-seed pages are absorbed here instead of failing the crawl.
type CrawlStats struct {
	PagesFetched int
	PagesFailed  int
}

// DiscovererConfig tunes a LinkDiscoverer. Zero values fall back to
// defaults.
type DiscovererConfig struct {
	// SiteHost gates which absolute URLs are considered part of the paper
	// archive, matched by substring against the whole URL.
	SiteHost string
	// MaxLinks caps the ranked result list.
	MaxLinks int
	// StrictTerm drops candidates that do not mention the requested term,
	// unless that would empty the result.
	StrictTerm bool
}

// LinkDiscoverer crawls the paper archive from a seed page and returns PDF
// URLs ranked by how well they match a subject and term.
type LinkDiscoverer struct {
	fetcher    HTMLFetcher
	siteHost   string
	maxLinks   int
	strictTerm bool
}

// NewLinkDiscoverer creates a discoverer backed by the given fetcher.
func NewLinkDiscoverer(fetcher HTMLFetcher, cfg DiscovererConfig) *LinkDiscoverer {
	if cfg.SiteHost == "" {
		cfg.SiteHost = "pastpapers.wiki"
	}
	if cfg.MaxLinks <= 0 {
		cfg.MaxLinks = defaultMaxLinks
	}
	return &LinkDiscoverer{
		fetcher:    fetcher,
		siteHost:   cfg.SiteHost,
		maxLinks:   cfg.MaxLinks,
		strictTerm: cfg.StrictTerm,
	}
}

// subjectAliases expands a subject into the spellings seen in archive URLs.
func subjectAliases(subject string) []string {
	switch strings.ToLower(strings.TrimSpace(subject)) {
	case "maths", "math", "mathematics":
		return []string{"maths", "math", "mathematics"}
	case "science":
		return []string{"science"}
	case "english":
		return []string{"english"}
	default:
		s := strings.ToLower(strings.TrimSpace(subject))
		if s == "" {
			return nil
		}
		return []string{s}
	}
}

// termAliases expands a term into the forms seen in archive URLs and file
// names, including the bare ordinal digit.
func termAliases(term string) []string {
	switch model.NormalizeTerm(term) {
	case "first":
		return []string{"first", "1st", "term1", "term-1", "term_1", "term 1", "1"}
	case "second":
		return []string{"second", "2nd", "term2", "term-2", "term_2", "term 2", "2"}
	default:
		return []string{"third", "3rd", "term3", "term-3", "term_3", "term 3", "3"}
	}
}

func urlHasAny(u string, needles []string) bool {
	lower := strings.ToLower(u)
	for _, n := range needles {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}

var assetExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".css", ".js"}

// isProbablyHTMLPage keeps crawlable archive pages: same site, not a PDF,
// not a fragment link, not a static asset.
func (d *LinkDiscoverer) isProbablyHTMLPage(u string) bool {
	lower := strings.ToLower(u)
	if !strings.Contains(lower, d.siteHost) {
		return false
	}
	if strings.HasSuffix(lower, ".pdf") || strings.Contains(u, "#") {
		return false
	}
	for _, ext := range assetExtensions {
		if strings.HasSuffix(lower, ext) {
			return false
		}
	}
	return true
}

// extractLinks parses HTML and returns every anchor href resolved against
// the page URL. Relative and protocol-relative links come back absolute;
// unparseable hrefs are skipped.
func extractLinks(body, pageURL string) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		base = nil
	}

	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil
	}

	var links []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				href := strings.TrimSpace(attr.Val)
				if href == "" {
					break
				}
				if base != nil {
					if ref, err := url.Parse(href); err == nil {
						href = base.ResolveReference(ref).String()
					}
				}
				links = append(links, href)
				break
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links
}

// DiscoverPDFLinks crawls from seedURL and returns up to MaxLinks PDF URLs
// ranked by subject/term relevance, highest first. Only an unreachable seed
// is an error; failures on deeper pages are counted in CrawlStats and the
// crawl continues with whatever it has.
func (d *LinkDiscoverer) DiscoverPDFLinks(ctx context.Context, seedURL, subject, term string) ([]string, CrawlStats, error) {
	var stats CrawlStats

	subjAliases := subjectAliases(subject)
	trmAliases := termAliases(term)

	seedBody, err := d.fetcher.FetchHTML(ctx, seedURL)
	if err != nil {
		stats.PagesFailed++
		return nil, stats, err
	}
	stats.PagesFetched++

	seedLinks := extractLinks(seedBody, seedURL)

	// Pages whose URL mentions the subject are where the term pages and the
	// PDFs live. If nothing matches, scan the seed itself.
	var subjectPages []string
	for _, link := range seedLinks {
		if d.isProbablyHTMLPage(link) && urlHasAny(link, subjAliases) {
			subjectPages = append(subjectPages, link)
			if len(subjectPages) >= maxSubjectPages {
				break
			}
		}
	}
	if len(subjectPages) == 0 {
		subjectPages = []string{seedURL}
	}

	visited := make(map[string]struct{})
	var candidates []model.PDFCandidate
	var childQueue []string

	scanPage := func(pageURL string) {
		if _, seen := visited[pageURL]; seen {
			return
		}
		visited[pageURL] = struct{}{}

		body, err := d.fetcher.FetchHTML(ctx, pageURL)
		if err != nil {
			stats.PagesFailed++
			log.Printf("Link Discoverer: skipping page %s: %v", pageURL, err)
			return
		}
		stats.PagesFetched++

		for _, link := range extractLinks(body, pageURL) {
			lower := strings.ToLower(link)
			if strings.HasSuffix(lower, ".pdf") {
				score := 0
				if urlHasAny(link, subjAliases) {
					score += subjectScoreBonus
				}
				if urlHasAny(link, trmAliases) {
					score += termScoreBonus
				}
				candidates = append(candidates, model.PDFCandidate{URL: link, Score: score})
				continue
			}
			if len(childQueue) < maxChildPages &&
				d.isProbablyHTMLPage(link) &&
				(urlHasAny(link, subjAliases) || urlHasAny(link, trmAliases)) {
				if _, seen := visited[link]; !seen && !containsString(childQueue, link) {
					childQueue = append(childQueue, link)
				}
			}
		}
	}

	for _, page := range subjectPages {
		scanPage(page)
	}
	// One more hop: term pages discovered under the subject pages.
	children := childQueue
	childQueue = nil
	for _, page := range children {
		scanPage(page)
	}

	if d.strictTerm {
		var filtered []model.PDFCandidate
		for _, c := range candidates {
			if urlHasAny(c.URL, trmAliases) {
				filtered = append(filtered, c)
			}
		}
		if len(filtered) > 0 {
			candidates = filtered
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	seen := make(map[string]struct{}, len(candidates))
	var links []string
	for _, c := range candidates {
		if _, dup := seen[c.URL]; dup {
			continue
		}
		seen[c.URL] = struct{}{}
		links = append(links, c.URL)
		if len(links) >= d.maxLinks {
			break
		}
	}

	log.Printf("Link Discoverer: %d links for subject=%q term=%q (fetched=%d failed=%d)",
		len(links), subject, term, stats.PagesFetched, stats.PagesFailed)
	return links, stats, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
