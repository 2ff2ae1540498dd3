package cron

import (
	"context"
	"log"
	"time"
)

// prefetchTimeout bounds one full prefetch crawl per target, well under the
// schedule interval so runs never overlap.
const prefetchTimeout = 10 * time.Minute

// PrefetchPapers crawls each configured subject/term pair and primes the
// exam service's paper cache. Failures are logged and skipped; the next
// tick retries.
func (m *CronManager) PrefetchPapers() {
	for _, t := range m.targets {
		ctx, cancel := context.WithTimeout(context.Background(), prefetchTimeout)
		count, err := m.exam.WarmPaperCache(ctx, t.Subject, t.Term)
		cancel()
		if err != nil {
			log.Printf("[CRON] prefetch_papers: %s/%s failed: %v", t.Subject, t.Term, err)
			continue
		}
		log.Printf("[CRON] prefetch_papers: %s/%s warmed with %d links", t.Subject, t.Term, count)
	}
}
