package di

import (
	"context"
	"errors"
	"net/http"
	"time"

	"brainstorm/application"
	"brainstorm/application/commands/bus"
	"brainstorm/application/ports"
	querybus "brainstorm/application/queries/bus"
	"brainstorm/application/services"
	domainconfig "brainstorm/domain/config"
	"brainstorm/infrastructure/config"
	"brainstorm/infrastructure/messaging"
	"brainstorm/infrastructure/messaging/eventbridge"
	"brainstorm/infrastructure/persistence/cache"
	"brainstorm/infrastructure/persistence/dynamodb"
	"brainstorm/infrastructure/persistence/memory"
	"brainstorm/infrastructure/resilience"
	"brainstorm/interfaces/http/rest"
	"brainstorm/interfaces/http/rest/middleware"
	"brainstorm/pkg/auth"
	pkgcache "brainstorm/pkg/cache"
	"brainstorm/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-xray-sdk-go/instrumentation/awsv2"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	serviceName        = "brainstorm"
	eventQueueCapacity = 512
	metricsFlushEvery  = time.Minute
	limiterPruneEvery  = 10 * time.Minute
	queryCacheTTL      = 10 * time.Second
	devUserID          = "dev-user"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() || cfg.IsLambda {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("service", serviceName), zap.String("environment", cfg.Environment)), nil
}

// ProvideAWSConfig creates AWS configuration; SDK calls are traced when tracing is enabled
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return aws.Config{}, err
	}
	if cfg.EnableTracing {
		awsv2.AWSV2Instrumentor(&awsCfg.APIOptions)
	}
	return awsCfg, nil
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideCollector creates the Prometheus collector served on /metrics
func ProvideCollector(cfg *config.Config) *observability.Collector {
	return observability.NewCollector(cfg.MetricsNamespace)
}

// ProvideTracer creates the X-Ray tracer; nil when tracing is disabled
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	if !cfg.EnableTracing {
		return nil
	}
	return observability.NewTracer(serviceName)
}

// ProvideBusMetrics sends bus measurements to Prometheus, and to CloudWatch when metrics are enabled
func ProvideBusMetrics(
	cfg *config.Config,
	collector *observability.Collector,
	client *awscloudwatch.Client,
	logger *zap.Logger,
) (ports.Metrics, func()) {
	if !cfg.EnableMetrics {
		return collector, func() {}
	}

	cw := observability.NewMetrics(cfg.MetricsNamespace, client, logger)
	cw.Start(metricsFlushEvery)
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := cw.Close(ctx); err != nil {
			logger.Warn("Failed to flush CloudWatch metrics", zap.Error(err))
		}
	}
	return observability.MultiMetrics{collector, cw}, cleanup
}

// ProvideBreakerDataService builds the configured data source behind a circuit breaker
func ProvideBreakerDataService(
	cfg *config.Config,
	client *awsdynamodb.Client,
	logger *zap.Logger,
) *resilience.BreakerDataService {
	var source ports.GraphDataService
	switch cfg.DataSource {
	case "memory":
		source = memory.NewDataService(cfg.GraphID)
	default:
		source = dynamodb.NewDataService(client, dynamodb.Config{
			TableName:   cfg.DynamoDBTable,
			GraphID:     cfg.GraphID,
			NodeIndex:   cfg.NodeIndexName,
			EdgeIndex:   cfg.EdgeIndexName,
			TargetIndex: cfg.TargetIndexName,
			RecentIndex: cfg.RecentIndexName,
		}, logger)
	}

	breakerCfg := resilience.DefaultBreakerConfig("graph-data-service")
	if cfg.BreakerFailureThreshold > 0 {
		breakerCfg.MinRequests = uint32(cfg.BreakerFailureThreshold)
	}
	if cfg.BreakerOpenTimeout > 0 {
		breakerCfg.Timeout = cfg.BreakerOpenTimeout
	}
	return resilience.NewBreakerDataService(source, breakerCfg, logger)
}

// ProvideGraphDataService puts the node cache in front of the guarded data source
func ProvideGraphDataService(
	cfg *config.Config,
	guarded *resilience.BreakerDataService,
	logger *zap.Logger,
) (ports.GraphDataService, func()) {
	cached := cache.NewCachingDataService(guarded, cfg.NodeCacheTTL, logger)
	return cached, cached.Close
}

// ProvideEventPublisher publishes to EventBridge when events are enabled, otherwise to the log.
// Delivery happens off the request path.
func ProvideEventPublisher(
	cfg *config.Config,
	client *awseventbridge.Client,
	collector *observability.Collector,
	logger *zap.Logger,
) (ports.EventPublisher, func()) {
	var sink ports.EventPublisher
	if cfg.EnableEvents {
		sink = eventbridge.NewPublisher(client, cfg.EventBusName, logger)
	} else {
		sink = messaging.NewLoggingPublisher(logger)
	}

	async := messaging.NewAsyncPublisher(sink, eventQueueCapacity, logger,
		messaging.WithDropHook(collector.RecordDroppedEvents),
	)
	return async, async.Close
}

// ProvideEngineWatcher watches ENGINE_CONFIG_FILE; nil when no overlay is configured
func ProvideEngineWatcher(cfg *config.Config, logger *zap.Logger) (*config.Watcher, func(), error) {
	if cfg.EngineConfigFile == "" {
		return nil, func() {}, nil
	}

	base := domainconfig.LoadEngineConfig(cfg.Environment)
	watcher, err := config.NewWatcher(cfg.EngineConfigFile, base, logger)
	if err != nil {
		return nil, nil, err
	}
	watcher.Start()
	return watcher, watcher.Stop, nil
}

// ProvideEngineConfig loads engine tuning for the environment, overlaid by the watched file if any
func ProvideEngineConfig(cfg *config.Config, watcher *config.Watcher) *domainconfig.EngineConfig {
	if watcher != nil {
		return watcher.Current()
	}
	return domainconfig.LoadEngineConfig(cfg.Environment)
}

// ProvideSessionRegistry creates the per-reader session registry.
// Engine config reloads apply to sessions opened afterwards.
func ProvideSessionRegistry(
	cfg *config.Config,
	data ports.GraphDataService,
	publisher ports.EventPublisher,
	engineCfg *domainconfig.EngineConfig,
	watcher *config.Watcher,
	collector *observability.Collector,
	tracer *observability.Tracer,
	logger *zap.Logger,
) (*services.SessionRegistry, func()) {
	inst := services.Instrumentation{Metrics: collector}
	if tracer != nil {
		inst.Tracer = tracer
	}

	registry := services.NewSessionRegistry(data, publisher, engineCfg, inst, cfg.SessionIdleTTL, logger)
	if watcher != nil {
		watcher.OnChange(func(next *domainconfig.EngineConfig) {
			registry.SetConfig(next)
			logger.Info("Engine config reloaded", zap.String("file", cfg.EngineConfigFile))
		})
	}
	return registry, registry.Close
}

// ProvideQueryCache creates the cache behind the query bus caching middleware
func ProvideQueryCache() (*pkgcache.QueryCache, func()) {
	c := pkgcache.NewQueryCache(queryCacheTTL)
	return c, c.Close
}

// ProvideCommandBus creates the command bus and registers every handler
func ProvideCommandBus(
	registry *services.SessionRegistry,
	publisher ports.EventPublisher,
	metrics ports.Metrics,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(
		bus.LoggingMiddleware(logger),
		bus.MetricsMiddleware(metrics),
	)
	if err := application.RegisterCommandHandlers(commandBus, registry, publisher, logger); err != nil {
		return nil, err
	}
	return commandBus, nil
}

// ProvideQueryBus creates the query bus and registers every handler
func ProvideQueryBus(
	registry *services.SessionRegistry,
	data ports.GraphDataService,
	queryCache *pkgcache.QueryCache,
	metrics ports.Metrics,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus(
		querybus.NewMetricsMiddleware(metrics),
		querybus.NewCachingMiddleware(queryCache),
	)
	if err := application.RegisterQueryHandlers(queryBus, registry, data, logger); err != nil {
		return nil, err
	}
	return queryBus, nil
}

// ProvideRouter creates the HTTP router
func ProvideRouter(
	cfg *config.Config,
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	collector *observability.Collector,
	tracer *observability.Tracer,
	guarded *resilience.BreakerDataService,
	logger *zap.Logger,
) (*rest.Router, func(), error) {
	authCfg := middleware.AuthConfig{TrustGateway: cfg.IsLambda}
	if cfg.JWTSecret != "" {
		validator, err := auth.NewJWTValidator(auth.JWTConfig{
			SecretKey: cfg.JWTSecret,
			Issuer:    cfg.JWTIssuer,
		})
		if err != nil {
			return nil, nil, err
		}
		authCfg.Validator = validator
	} else if !cfg.IsProduction() {
		logger.Warn("JWT_SECRET not set, every request is served as the development user", zap.String("userID", devUserID))
		authCfg.DevUserID = devUserID
	}

	opts := rest.Options{
		Auth:               authCfg,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		EnableCORS:         cfg.EnableCORS,
		Metrics:            collector,
		MetricsHandler:     collector.Handler(),
		Ready: func(context.Context) error {
			if guarded.State() == gobreaker.StateOpen {
				return errors.New("graph data service circuit is open")
			}
			return nil
		},
	}
	if tracer != nil {
		opts.Tracing = tracer.Middleware
	}

	router := rest.NewRouter(commandBus, queryBus, opts, logger)

	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(limiterPruneEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := router.Limiter().Prune(); n > 0 {
					logger.Debug("Pruned idle rate limit buckets", zap.Int("count", n))
				}
			case <-stop:
				return
			}
		}
	}()
	return router, func() { close(stop) }, nil
}

// ProvideHTTPHandler builds the routes
func ProvideHTTPHandler(router *rest.Router) http.Handler {
	return router.Setup()
}
