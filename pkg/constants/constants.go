// Package constants provides shared constants used throughout the skaffolder codebase.
// This includes timeouts, limits, file permissions, and other configuration values
// that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for discovery HTTP requests
	DefaultHTTPTimeout = 30 * time.Second

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// MaxConcurrentResources is the default number of resources generated in parallel
	MaxConcurrentResources = 4

	// MaxSchemaDepth bounds how deep the normalizer follows nested references
	MaxSchemaDepth = 32

	// DescriptionWidth is the column at which generated descriptions are wrapped
	DescriptionWidth = 72

	// MismatchThreshold is the similarity at which two field names are reported as a near miss
	MismatchThreshold = 0.8
)

// Cache constants
const (
	// CacheTTL is the default time-to-live for cached discovery documents
	CacheTTL = 15 * time.Minute

	// CacheCleanupInterval is how often to clean expired cache entries
	CacheCleanupInterval = 5 * time.Minute
)

// Discovery constants
const (
	// DiscoveryURL is the Google API discovery directory
	DiscoveryURL = "https://www.googleapis.com/discovery/v1/apis"

	// ProductFile is the product metadata file in a product directory
	ProductFile = "product.yaml"

	// DefinitionExt is the extension of resource definition files
	DefinitionExt = ".yaml"
)

// Version tiers as they appear in product files
const (
	VersionGA   = "ga"
	VersionBeta = "beta"
)
