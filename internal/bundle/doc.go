// Package bundle describes and discovers bundles: self-contained feature
// modules that contribute route groups (blueprints), models, serializers
// and an optional CLI command group to an application.
//
// Bundles are compiled in and registered explicitly in a Catalog. On disk,
// each bundle folder may carry a declarative manifest (bundle.yaml or
// bundle.toml) that names the catalog entry, its module path and whether
// it is enabled:
//
//	bundles/
//	  security/bundle.yaml   name: security
//	  site/bundle.toml       name = "site"
//
// Discover resolves the configured roots and allow-list into an ordered
// list of descriptors:
//
//	bundles, err := bundle.Discover(catalog, bundle.Options{
//		Roots:   cfg.Bundles.Roots,
//		Enabled: cfg.Bundles.Enabled,
//		BaseDir: cfg.ProjectRoot,
//	})
package bundle
