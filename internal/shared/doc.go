// Package shared groups helpers used across brickstats packages.
//
// The testutil subpackage provides a buffered slog handler for log
// assertions and a small catalog export (tables plus relationship manifest)
// that pipeline, service and handler tests write into temporary directories:
//
//	func TestMerge(t *testing.T) {
//	    dir := t.TempDir()
//	    testutil.WriteCatalog(t, filepath.Join(dir, "data"))
//	    testutil.WriteFile(t, filepath.Join(dir, "results", "relationships.csv"), testutil.CatalogManifest)
//	}
package shared
