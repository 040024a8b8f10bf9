package catalog

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"go.uber.org/zap"
)

// Seeder loads app schemas from disk into a registry at startup.
type Seeder struct {
	registry  *Registry
	schemaDir string
	logger    *zap.Logger
}

// NewSeeder creates a schema seeder reading from schemaDir.
func NewSeeder(registry *Registry, schemaDir string, logger *zap.Logger) *Seeder {
	return &Seeder{
		registry:  registry,
		schemaDir: schemaDir,
		logger:    logger,
	}
}

// Seed walks the schema directory and registers every schema file it can
// parse. A missing directory is not an error: deployments without
// pre-registered apps are normal.
func (s *Seeder) Seed() error {
	if s.schemaDir == "" {
		return nil
	}
	if _, err := os.Stat(s.schemaDir); os.IsNotExist(err) {
		s.logger.Warn("Schema directory not found", zap.String("dir", s.schemaDir))
		return nil
	}

	var loaded, failed int

	err := filepath.Walk(s.schemaDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		switch {
		case strings.HasSuffix(info.Name(), ".yaml"), strings.HasSuffix(info.Name(), ".yml"),
			strings.HasSuffix(info.Name(), ".json"):
		default:
			return nil
		}

		if err := s.loadSchema(path); err != nil {
			s.logger.Warn("Failed to load schema", zap.String("file", info.Name()), zap.Error(err))
			failed++
		} else {
			s.logger.Info("Loaded schema", zap.String("file", info.Name()))
			loaded++
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Schema seeding complete", zap.Int("loaded", loaded), zap.Int("failed", failed))
	return nil
}

func (s *Seeder) loadSchema(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var schema AppSchema
	if strings.HasSuffix(path, ".json") {
		if err := sonic.Unmarshal(data, &schema); err != nil {
			return err
		}
	} else {
		if err := yaml.Unmarshal(data, &schema); err != nil {
			return err
		}
	}

	return s.registry.Register(schema)
}
