// Package app provides the Application: the container every bootstrap
// stage writes into and every request, CLI command and shell session
// reads from.
//
// An Application owns the gin router, the cobra CLI root, the ordered
// bundle mapping, the model and serializer registries, the initialized
// extensions and the request lifecycle hooks. It is mutated only while
// bootstrapping and treated as read-only afterwards.
//
// Key Components:
//   - Application: the container, created with New
//   - Extension / Extensions: one-time initializers and their ordered set
//   - Before/after request hooks run around every request, with the
//     session opened before and saved after
//   - Shell context processors feeding the interactive shell
//
// Example Usage:
//
//	a := app.New("site", logger)
//	a.ApplyConfig(cfg)
//	a.AttachBundles(bundles)
//	http.ListenAndServe(cfg.Addr(), a)
package app
