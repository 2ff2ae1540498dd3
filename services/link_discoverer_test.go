package services

import (
	"context"
	"fmt"
	"testing"
)

type stubHTMLFetcher struct {
	pages   map[string]string
	fetched []string
}

func (s *stubHTMLFetcher) FetchHTML(_ context.Context, url string) (string, error) {
	s.fetched = append(s.fetched, url)
	body, ok := s.pages[url]
	if !ok {
		return "", fmt.Errorf("no such page: %s", url)
	}
	return body, nil
}

const testSeedURL = "https://pastpapers.wiki/grade-09-term-test-papers/"

func TestDiscoverRanksSubjectAndTermMatchFirst(t *testing.T) {
	fetcher := &stubHTMLFetcher{pages: map[string]string{
		testSeedURL: `<html><body>
			<a href="https://pastpapers.wiki/maths-papers/">Maths</a>
			<a href="https://pastpapers.wiki/about/#top">About</a>
			<a href="https://pastpapers.wiki/logo.png">Logo</a>
		</body></html>`,
		"https://pastpapers.wiki/maths-papers/": `<html><body>
			<a href="/files/history-notes.pdf">History</a>
			<a href="/files/agriculture-2023.pdf">Agriculture</a>
			<a href="/files/maths-1st-term-paper.pdf">Maths first term</a>
		</body></html>`,
	}}

	d := NewLinkDiscoverer(fetcher, DiscovererConfig{})
	links, stats, err := d.DiscoverPDFLinks(context.Background(), testSeedURL, "Maths", "First term")
	if err != nil {
		t.Fatalf("discovery failed: %v", err)
	}
	if len(links) != 3 {
		t.Fatalf("expected 3 links, got %d: %v", len(links), links)
	}
	if links[0] != "https://pastpapers.wiki/files/maths-1st-term-paper.pdf" {
		t.Errorf("subject+term match should rank first, got %s", links[0])
	}
	if stats.PagesFetched != 2 {
		t.Errorf("expected 2 pages fetched, got %d", stats.PagesFetched)
	}
}

func TestDiscoverFollowsChildPages(t *testing.T) {
	fetcher := &stubHTMLFetcher{pages: map[string]string{
		testSeedURL: `<a href="https://pastpapers.wiki/science-papers/">Science</a>`,
		"https://pastpapers.wiki/science-papers/": `
			<a href="https://pastpapers.wiki/science-term3/">Third term</a>`,
		"https://pastpapers.wiki/science-term3/": `
			<a href="https://pastpapers.wiki/files/science-term3-2024.pdf">Paper</a>`,
	}}

	d := NewLinkDiscoverer(fetcher, DiscovererConfig{})
	links, _, err := d.DiscoverPDFLinks(context.Background(), testSeedURL, "Science", "Third term")
	if err != nil {
		t.Fatalf("discovery failed: %v", err)
	}
	if len(links) != 1 || links[0] != "https://pastpapers.wiki/files/science-term3-2024.pdf" {
		t.Errorf("expected the PDF one hop below the subject page, got %v", links)
	}
}

func TestDiscoverSeedFailureIsAnError(t *testing.T) {
	fetcher := &stubHTMLFetcher{pages: map[string]string{}}

	d := NewLinkDiscoverer(fetcher, DiscovererConfig{})
	_, stats, err := d.DiscoverPDFLinks(context.Background(), testSeedURL, "Maths", "first")
	if err == nil {
		t.Fatal("expected an error when the seed page is unreachable")
	}
	if stats.PagesFailed != 1 {
		t.Errorf("expected 1 failed page, got %d", stats.PagesFailed)
	}
}

func TestDiscoverSwallowsDeepPageFailures(t *testing.T) {
	fetcher := &stubHTMLFetcher{pages: map[string]string{
		testSeedURL: `
			<a href="https://pastpapers.wiki/english-papers/">English</a>
			<a href="https://pastpapers.wiki/english-archive/">English archive</a>`,
		"https://pastpapers.wiki/english-papers/": `
			<a href="https://pastpapers.wiki/files/english-term-3.pdf">Paper</a>`,
		// english-archive is missing and must only degrade the result.
	}}

	d := NewLinkDiscoverer(fetcher, DiscovererConfig{})
	links, stats, err := d.DiscoverPDFLinks(context.Background(), testSeedURL, "English", "third")
	if err != nil {
		t.Fatalf("deep page failure should not abort the crawl: %v", err)
	}
	if len(links) != 1 {
		t.Errorf("expected the reachable PDF, got %v", links)
	}
	if stats.PagesFailed != 1 {
		t.Errorf("expected 1 failed page, got %d", stats.PagesFailed)
	}
}

func TestDiscoverStrictTermDropsOtherTerms(t *testing.T) {
	fetcher := &stubHTMLFetcher{pages: map[string]string{
		testSeedURL: `<a href="https://pastpapers.wiki/maths-papers/">Maths</a>`,
		"https://pastpapers.wiki/maths-papers/": `
			<a href="/files/maths-first-term.pdf">First term</a>
			<a href="/files/maths-revision-notes.pdf">Notes</a>
			<a href="/files/maths-model-papers.pdf">Model papers</a>`,
	}}

	d := NewLinkDiscoverer(fetcher, DiscovererConfig{StrictTerm: true})
	links, _, err := d.DiscoverPDFLinks(context.Background(), testSeedURL, "Maths", "First term")
	if err != nil {
		t.Fatalf("discovery failed: %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("expected only the first-term PDF, got %v", links)
	}
	if links[0] != "https://pastpapers.wiki/files/maths-first-term.pdf" {
		t.Errorf("wrong PDF survived the term filter: %s", links[0])
	}
}

func TestDiscoverStrictTermKeepsAllWhenNoneMatch(t *testing.T) {
	fetcher := &stubHTMLFetcher{pages: map[string]string{
		testSeedURL: `<a href="https://pastpapers.wiki/maths-papers/">Maths</a>`,
		"https://pastpapers.wiki/maths-papers/": `
			<a href="/files/maths-revision-notes.pdf">Notes</a>
			<a href="/files/maths-model-papers.pdf">Model papers</a>`,
	}}

	d := NewLinkDiscoverer(fetcher, DiscovererConfig{StrictTerm: true})
	links, _, err := d.DiscoverPDFLinks(context.Background(), testSeedURL, "Maths", "First term")
	if err != nil {
		t.Fatalf("discovery failed: %v", err)
	}
	// Filtering to zero would leave the student with nothing; the unfiltered
	// candidates survive instead.
	if len(links) != 2 {
		t.Errorf("expected both PDFs when no candidate matches the term, got %v", links)
	}
}

func TestDiscoverDeduplicatesAndCaps(t *testing.T) {
	page := `<body>`
	for i := 0; i < 10; i++ {
		page += fmt.Sprintf(`<a href="/files/maths-%d.pdf">p</a>`, i)
	}
	page += `<a href="/files/maths-0.pdf">dup</a></body>`

	fetcher := &stubHTMLFetcher{pages: map[string]string{
		testSeedURL: `<a href="https://pastpapers.wiki/maths-papers/">Maths</a>`,
		"https://pastpapers.wiki/maths-papers/": page,
	}}

	d := NewLinkDiscoverer(fetcher, DiscovererConfig{MaxLinks: 6})
	links, _, err := d.DiscoverPDFLinks(context.Background(), testSeedURL, "Maths", "first")
	if err != nil {
		t.Fatalf("discovery failed: %v", err)
	}
	if len(links) != 6 {
		t.Errorf("expected the link cap of 6, got %d", len(links))
	}
	seen := map[string]bool{}
	for _, l := range links {
		if seen[l] {
			t.Errorf("duplicate link returned: %s", l)
		}
		seen[l] = true
	}
}
