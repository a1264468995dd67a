// Package config provides configuration loading and path resolution for the
// sales analytics pipeline.
//
// Configuration is assembled from three layers, lowest precedence first:
// struct defaults, an optional config.yaml file, and SALES_* environment
// variables. The merged result is validated with struct tags before use.
//
// Paths are always resolved against the executable directory, never the
// working directory, so the binary produces its reports and charts in the
// same place regardless of where it is invoked from.
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	paths, err := config.ResolvePaths(cfg.Paths)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := paths.EnsureDirectories(); err != nil {
//	    log.Fatal(err)
//	}
package config
