// Package wikiart is a small client for the WikiArt v2 API and the
// Wikipedia search used to link paintings to their articles.
package wikiart
