// Package wire provides dependency injection for the curator application.
// It creates singleton services with lazy initialization.
package wire

import (
	"log"
	"sync"

	"github.com/example/curator/internal/adapters/advisor"
	"github.com/example/curator/internal/adapters/archive"
	"github.com/example/curator/internal/adapters/corrade"
	"github.com/example/curator/internal/adapters/sqlite"
	"github.com/example/curator/internal/app"
	"github.com/example/curator/internal/config"
	"github.com/example/curator/internal/db"
	"github.com/example/curator/internal/ports/primary"
	"github.com/example/curator/internal/ports/secondary"
)

var (
	cfg             *config.Config
	scanService     *app.ScanServiceImpl
	classifyService primary.ClassifyService
	planService     primary.PlanService
	executeService  primary.ExecuteService
	mergeService    primary.MergeService
	rulesService    primary.RulesService
	suggestService  primary.SuggestService
	reportService   primary.ReportService
	once            sync.Once
)

// Config returns the loaded application configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// ScanService returns the singleton ScanService instance.
func ScanService() primary.ScanService {
	once.Do(initServices)
	return scanService
}

// ClassifyService returns the singleton ClassifyService instance.
func ClassifyService() primary.ClassifyService {
	once.Do(initServices)
	return classifyService
}

// PlanService returns the singleton PlanService instance.
func PlanService() primary.PlanService {
	once.Do(initServices)
	return planService
}

// ExecuteService returns the singleton ExecuteService instance.
func ExecuteService() primary.ExecuteService {
	once.Do(initServices)
	return executeService
}

// MergeService returns the singleton MergeService instance.
func MergeService() primary.MergeService {
	once.Do(initServices)
	return mergeService
}

// RulesService returns the singleton RulesService instance.
func RulesService() primary.RulesService {
	once.Do(initServices)
	return rulesService
}

// SuggestService returns the singleton SuggestService instance.
func SuggestService() primary.SuggestService {
	once.Do(initServices)
	return suggestService
}

// ReportService returns the singleton ReportService instance.
func ReportService() primary.ReportService {
	once.Do(initServices)
	return reportService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	// Load configuration (missing file means defaults)
	loaded, err := config.LoadDefault()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg = loaded

	// Get database connection
	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Create repository adapters (secondary ports) - sqlite adapters with injected DB
	ruleRepo := sqlite.NewRuleRepository(database)
	opRepo := sqlite.NewOperationRepository(database)
	indexRepo := sqlite.NewIndexRepository(database)
	suggestionRepo := sqlite.NewSuggestionRepository(database)
	activityRepo := sqlite.NewActivityRepository(database)
	logWriter := sqlite.NewLogWriterAdapter(activityRepo)
	planRepo := sqlite.NewPlanRepository(database, logWriter)

	// The remote store adapter. With no bridge configured the client is
	// still constructed; commands that reach for the remote are guarded
	// at the CLI layer.
	remote := corrade.NewClient(corrade.Config{
		URL:               cfg.Bridge.URL,
		Group:             cfg.Bridge.Group,
		Password:          cfg.Bridge.Password,
		Root:              cfg.Bridge.Root,
		RequestsPerSecond: cfg.Bridge.RequestsPerSecond,
		RetryAttempts:     cfg.Rate.MaxRetries,
		Timeout:           cfg.Bridge.Timeout.Std(),
	})

	// Optional adapters, enabled by their config blocks
	var categoryAdvisor secondary.CategoryAdvisor
	if cfg.Advisor != nil {
		a, err := advisor.NewAdvisor(advisor.Config{
			BaseURL:   cfg.Advisor.BaseURL,
			APIKey:    cfg.Advisor.APIKey,
			Model:     cfg.Advisor.Model,
			CacheSize: cfg.Advisor.CacheSize,
		})
		if err != nil {
			log.Fatalf("failed to initialize advisor: %v", err)
		}
		categoryAdvisor = a
	}

	var reportArchive secondary.ReportArchive
	if cfg.Archive != nil {
		a, err := archive.NewArchive(archive.Config{
			Endpoint:  cfg.Archive.Endpoint,
			Region:    cfg.Archive.Region,
			AccessKey: cfg.Archive.AccessKey,
			SecretKey: cfg.Archive.SecretKey,
			Bucket:    cfg.Archive.Bucket,
			UseSSL:    cfg.Archive.UseSSL,
			Prefix:    cfg.Archive.Prefix,
		})
		if err != nil {
			log.Fatalf("failed to initialize archive: %v", err)
		}
		reportArchive = a
	}

	// Create services (primary ports implementation). The scan service
	// owns the folder index; plan, execute, merge and report read it
	// through the same instance.
	scanService = app.NewScanService(remote, indexRepo, logWriter, app.ScanConfig{
		SnapshotTTL: cfg.Index.TTL.Std(),
	})
	classifyService = app.NewClassifyService(remote, ruleRepo)
	planService = app.NewPlanService(planRepo, opRepo, ruleRepo, suggestionRepo, remote, scanService, logWriter)
	executeService = app.NewExecuteService(planRepo, opRepo, remote, scanService, logWriter, app.ExecuteConfig{
		OpDelay:    cfg.Rate.OpDelay.Std(),
		BatchSize:  cfg.Rate.BatchSize,
		BatchDelay: cfg.Rate.BatchDelay.Std(),
		MaxWorkers: cfg.Run.Workers,
	})
	mergeService = app.NewMergeService(planRepo, opRepo, scanService)
	rulesService = app.NewRulesService(ruleRepo, logWriter)
	suggestService = app.NewSuggestService(categoryAdvisor, suggestionRepo, ruleRepo)
	reportService = app.NewReportService(planRepo, opRepo, suggestionRepo, activityRepo, scanService, reportArchive)
}
