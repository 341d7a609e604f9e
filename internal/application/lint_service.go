package application

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/openkraft/apigrade/internal/domain"
	"github.com/openkraft/apigrade/internal/domain/grading"
	"github.com/openkraft/apigrade/internal/domain/rules"
	"github.com/openkraft/apigrade/internal/logger"
)

// ErrNoSpecs is returned when a directory holds no API description.
var ErrNoSpecs = errors.New("no API descriptions found")

// LintOptions tune a lint run. Visibility, when set, overrides the config.
type LintOptions struct {
	Config     ConfigSource
	Visibility domain.Visibility
}

// LintService orchestrates the pipeline:
// load config → ingest → compile custom rules → evaluate → grade → stamp.
type LintService struct {
	ingestor     domain.SpecIngestor
	finder       domain.SpecFinder
	configLoader domain.ConfigLoader
	git          domain.GitInfo

	now   func() time.Time
	newID func() string
}

func NewLintService(
	ingestor domain.SpecIngestor,
	finder domain.SpecFinder,
	configLoader domain.ConfigLoader,
	git domain.GitInfo,
) *LintService {
	return &LintService{
		ingestor:     ingestor,
		finder:       finder,
		configLoader: configLoader,
		git:          git,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// Lint grades every spec named by paths. Directories are searched for spec
// files. Reports come back in the order the specs were found.
func (s *LintService) Lint(ctx context.Context, paths []string, opts LintOptions) ([]*domain.Report, error) {
	var specs []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		if !info.IsDir() {
			specs = append(specs, p)
			continue
		}
		found, err := s.finder.Find(p)
		if err != nil {
			return nil, fmt.Errorf("searching %s: %w", p, err)
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("%s: %w", p, ErrNoSpecs)
		}
		logger.G(ctx).WithField("dir", p).Debugf("found %d spec files", len(found))
		specs = append(specs, found...)
	}

	reports := make([]*domain.Report, 0, len(specs))
	for _, spec := range specs {
		r, err := s.LintFile(ctx, spec, opts)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// LintFile grades one spec file. Without an explicit config file, the
// config is looked up next to the spec.
func (s *LintService) LintFile(ctx context.Context, path string, opts LintOptions) (*domain.Report, error) {
	ctx = logger.WithFields(ctx, logrus.Fields{"source": path})
	src := opts.Config
	if src.File == "" && src.Dir == "" {
		src.Dir = filepath.Dir(path)
	}
	cfg, err := loadConfig(s.configLoader, src)
	if err != nil {
		return nil, err
	}

	api, err := s.ingestor.IngestFile(path)
	if err != nil {
		return nil, fmt.Errorf("ingesting %s: %w", path, err)
	}

	report, err := s.grade(ctx, api, cfg, opts)
	if err != nil {
		return nil, err
	}

	if hash, err := s.git.CommitHash(path); err == nil {
		report.CommitHash = hash
	} else {
		logger.G(ctx).WithError(err).Debug("no commit hash for spec")
	}
	return report, nil
}

// LintContent grades an in-memory spec, such as stdin or MCP input.
func (s *LintService) LintContent(ctx context.Context, source string, data []byte, opts LintOptions) (*domain.Report, error) {
	ctx = logger.WithFields(ctx, logrus.Fields{"source": source})
	cfg, err := loadConfig(s.configLoader, opts.Config)
	if err != nil {
		return nil, err
	}

	api, err := s.ingestor.Ingest(source, data)
	if err != nil {
		return nil, fmt.Errorf("ingesting %s: %w", source, err)
	}
	return s.grade(ctx, api, cfg, opts)
}

func (s *LintService) grade(ctx context.Context, api *domain.API, cfg domain.ProjectConfig, opts LintOptions) (*domain.Report, error) {
	if opts.Visibility != "" {
		if !opts.Visibility.IsValid() {
			return nil, fmt.Errorf("unknown visibility %q (valid: public, internal)", opts.Visibility)
		}
		cfg.Visibility = opts.Visibility
	}

	catalog, err := BuildCatalog(cfg)
	if err != nil {
		return nil, err
	}

	log := logger.G(ctx).WithFields(logrus.Fields{
		"format":    api.Format,
		"endpoints": len(api.Endpoints),
	})
	log.Debug("evaluating rules")

	findings := rules.NewEvaluator(catalog, cfg).Evaluate(api)
	report := grading.BuildReport(api, findings, cfg.EffectiveVisibility())
	report.MinGrade = cfg.EffectiveMinGrade()
	report.ID = s.newID()
	report.GeneratedAt = s.now().UTC()

	log.WithFields(logrus.Fields{
		"grade":    report.Grade,
		"findings": len(findings),
	}).Info("graded")
	return report, nil
}
