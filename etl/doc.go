// Package etl holds the concrete catalog ETLs run by the pipeline package:
// CatalogETL ingests WikiArt's most viewed paintings and EnrichmentETL
// refreshes stored paintings with their detail pages.
package etl
