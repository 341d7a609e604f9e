package domain_test

import (
	"github.com/openkraft/apigrade/internal/adapters/outbound/config"
	"github.com/openkraft/apigrade/internal/adapters/outbound/gitinfo"
	"github.com/openkraft/apigrade/internal/adapters/outbound/ingest"
	"github.com/openkraft/apigrade/internal/adapters/outbound/scanner"
	"github.com/openkraft/apigrade/internal/domain"
)

var (
	_ domain.SpecIngestor = (*ingest.Ingestor)(nil)
	_ domain.SpecFinder   = (*scanner.SpecScanner)(nil)
	_ domain.ConfigLoader = (*config.YAMLLoader)(nil)
	_ domain.GitInfo      = (*gitinfo.GitInfoAdapter)(nil)
)
