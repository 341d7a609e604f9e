package domain

// SpecIngestor turns a raw API description into the normalized model.
type SpecIngestor interface {
	IngestFile(path string) (*API, error)
	Ingest(source string, data []byte) (*API, error)
}

// SpecFinder locates API description files under a directory.
type SpecFinder interface {
	Find(dir string) ([]string, error)
}

// ConfigLoader loads project configuration from a directory or explicit file.
type ConfigLoader interface {
	Load(dir string) (ProjectConfig, error)
	LoadFile(path string) (ProjectConfig, error)
}

// GitInfo provides version-control metadata for a spec's location.
type GitInfo interface {
	CommitHash(path string) (string, error)
}
