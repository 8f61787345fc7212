package app

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/shadysedhom/mair-assignment/internal/catalog"
	"github.com/shadysedhom/mair-assignment/internal/classifier"
	"github.com/shadysedhom/mair-assignment/internal/config"
	"github.com/shadysedhom/mair-assignment/internal/dialogue"
	"github.com/shadysedhom/mair-assignment/internal/extractor"
	"github.com/shadysedhom/mair-assignment/internal/inference"
	"github.com/shadysedhom/mair-assignment/internal/transcript"
)

// Container holds the shared, read-only parts of the system. Every dialogue
// session gets its own machine, extractor, random source and recorder.
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	Catalog    *catalog.Catalog
	Reasoner   *inference.Engine
	Classifier dialogue.Classifier
	Templates  *dialogue.Templates

	sinks    []transcript.Sink
	sessions atomic.Int64
	closers  []func()
}

// Session is one wired dialogue.
type Session struct {
	Machine  *dialogue.Machine
	Recorder *transcript.Recorder
}

// Build assembles the catalog, classifier, templates and transcript sinks
// described by cfg.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}

	c := &Container{Config: cfg, Logger: logger}
	defer func() {
		if err != nil {
			c.Close()
		}
	}()

	reader, err := c.catalogReader(ctx)
	if err != nil {
		return nil, err
	}
	c.Catalog, err = catalog.Load(ctx, reader, catalog.WithRand(c.newRand(0)))
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	logger.Info("Catalog loaded",
		zap.String("source", cfg.Catalog.Source),
		zap.Int("restaurants", c.Catalog.Len()),
	)

	c.Classifier, err = c.buildClassifier(ctx)
	if err != nil {
		return nil, err
	}

	c.Templates, err = dialogue.LoadTemplates(dialogue.Style(cfg.Dialogue.Style))
	if err != nil {
		return nil, fmt.Errorf("failed to load response templates: %w", err)
	}

	if cfg.Transcript.Sink == config.SinkRedis {
		sink, err := transcript.NewRedisSink(ctx, transcript.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Transcript.TTL,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create transcript sink: %w", err)
		}
		c.sinks = append(c.sinks, sink)
		c.closers = append(c.closers, func() { _ = sink.Close() })
	}

	c.Reasoner = inference.NewEngine(logger)
	return c, nil
}

func (c *Container) catalogReader(ctx context.Context) (catalog.Reader, error) {
	if c.Config.Catalog.Source != config.CatalogSourcePostgres {
		return catalog.NewCSVReader(c.Config.Catalog.CSVPath), nil
	}

	pg := c.Config.Postgres
	reader, err := catalog.NewPostgresReader(ctx, catalog.PostgresConfig{
		Host:     pg.Host,
		Port:     pg.Port,
		User:     pg.User,
		Password: pg.Password,
		Database: pg.Database,
		Table:    c.Config.Catalog.Table,
	}, c.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect catalog database: %w", err)
	}
	c.closers = append(c.closers, func() { _ = reader.Close() })
	return reader, nil
}

func (c *Container) buildClassifier(ctx context.Context) (dialogue.Classifier, error) {
	if c.Config.Classifier.Kind != config.ClassifierLLM {
		return classifier.NewDefaultKeyword(), nil
	}

	models, err := classifier.NewModelManager(ctx, classifier.ModelManagerConfig{
		GeminiAPIKey:       c.Config.Gemini.APIKey,
		OpenAIAPIKey:       c.Config.OpenAI.APIKey,
		DefaultGeminiModel: c.Config.Gemini.Model,
		DefaultOpenAIModel: c.Config.OpenAI.Model,
		EnableFallback:     c.Config.OpenAI.EnableFallback,
	}, c.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create model manager: %w", err)
	}
	return classifier.NewLLM(models, c.Logger)
}

// newRand returns a seeded source. A zero seed in the config means time based;
// otherwise offset keeps sessions distinct but reproducible.
func (c *Container) newRand(offset int64) *rand.Rand {
	seed := c.Config.Catalog.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed + offset))
}

// NewSession wires a fresh dialogue over provider.
func (c *Container) NewSession(provider dialogue.Provider) (*Session, error) {
	n := c.sessions.Add(1)
	logger := c.Logger.With(zap.Int64("session", n))

	recorder := transcript.NewRecorder(logger, transcript.WithSinks(c.sinks...))
	machine, err := dialogue.NewMachine(dialogue.Dependencies{
		Catalog:    c.Catalog,
		Extractor:  extractor.New(c.Catalog, logger),
		Reasoner:   c.Reasoner,
		Classifier: c.Classifier,
		Provider:   provider,
		Templates:  c.Templates,
		Transcript: recorder,
		Rand:       c.newRand(n),
		Logger:     logger,
	}, dialogue.WithConfirmMatches(c.Config.Dialogue.ConfirmMatches))
	if err != nil {
		return nil, err
	}
	return &Session{Machine: machine, Recorder: recorder}, nil
}

// RunSession runs a dialogue to completion and saves its transcript when the
// file sink is configured. The run error is returned as is.
func (c *Container) RunSession(ctx context.Context, provider dialogue.Provider) error {
	session, err := c.NewSession(provider)
	if err != nil {
		return err
	}

	runErr := session.Machine.Run(ctx)

	if c.Config.Transcript.Sink == config.SinkFile {
		if _, err := session.Recorder.Save(c.Config.Transcript.Dir); err != nil {
			c.Logger.Warn("Failed to save transcript", zap.Error(err))
		}
	}
	return runErr
}

func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
