package app

import (
	"fmt"
	"log"
	"strings"

	"github.com/studiopixelbloomcreations/Tutor---AI-Made-for-Studying/api"
	"github.com/studiopixelbloomcreations/Tutor---AI-Made-for-Studying/config"
	"github.com/studiopixelbloomcreations/Tutor---AI-Made-for-Studying/router"
	"github.com/studiopixelbloomcreations/Tutor---AI-Made-for-Studying/services"
	"github.com/studiopixelbloomcreations/Tutor---AI-Made-for-Studying/services/cron"
	"github.com/studiopixelbloomcreations/Tutor---AI-Made-for-Studying/utils/cache"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Session store: Redis when configured, otherwise in-process memory.
	var store services.SessionStore
	var redisCache *cache.RedisCache
	if getEnv.SESSION_BACKEND == "redis" {
		redisCache, err = cache.NewRedisCache(getEnv.REDIS_URL)
		if err != nil {
			log.Printf("Warning: Redis unavailable (%v), falling back to in-memory sessions", err)
			store = services.NewMemorySessionStore()
		} else {
			store = services.NewRedisSessionStore(redisCache, getEnv.SESSION_TTL)
		}
	} else {
		store = services.NewMemorySessionStore()
	}
	defer func() {
		if redisCache != nil {
			redisCache.Close()
		}
	}()

	// Exam pipeline
	fetcher := services.NewFetchClient(services.FetchConfig{
		Timeout:        getEnv.FETCH_TIMEOUT,
		RenderProxyURL: getEnv.RENDER_PROXY_URL,
	})
	discoverer := services.NewLinkDiscoverer(fetcher, services.DiscovererConfig{
		SiteHost:   getEnv.SITE_HOST,
		MaxLinks:   getEnv.MAX_PDF_LINKS,
		StrictTerm: getEnv.STRICT_TERM,
	})
	examService := services.NewExamService(store, discoverer, fetcher, services.NewPDFExtractor(), services.ExamServiceConfig{
		SeedURL:       getEnv.SEED_URL,
		PaperCacheTTL: getEnv.PAPER_CACHE_TTL,
	})

	tutorService := services.NewTutorService(services.TutorConfig{
		APIKey:  getEnv.GROQ_API_KEY,
		BaseURL: getEnv.GROQ_BASE_URL,
		Model:   getEnv.GROQ_MODEL,
	})

	// Scheduled paper prefetch (opt-in)
	var cronManager *cron.CronManager
	if getEnv.CRON_ENABLED {
		cronManager = cron.NewCronManager(examService, parsePrefetchTargets(getEnv.PREFETCH_TARGETS))
		if err := cronManager.Start(); err != nil {
			log.Printf("Warning: failed to start cron jobs: %v", err)
		}
	}
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
	}()

	// Init API
	var server *api.APIServer = api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	// Setup Routes
	router.SetupRoutes(app, router.Deps{
		Exam:           examService,
		Tutor:          tutorService,
		AllowedOrigins: getEnv.ALLOWED_ORIGINS,
	})

	// Get the PORT & Start the Server
	return server.Run()

}

// parsePrefetchTargets parses "Maths:first,Science:third" into targets.
// Malformed entries are skipped.
func parsePrefetchTargets(raw string) []cron.PrefetchTarget {
	var targets []cron.PrefetchTarget
	for _, entry := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(entry), ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			continue
		}
		targets = append(targets, cron.PrefetchTarget{Subject: parts[0], Term: parts[1]})
	}
	return targets
}
