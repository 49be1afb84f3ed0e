// Package manifest names bundles and describes, for each entry point, which
// bundle files the runtime loader must fetch.
//
// A manifest is pure data. It is serialized either as deterministic JSON
// (sorted keys, stable across runs) or as loader configuration text:
//
//	steal.config({"paths":{"bundles/*":"dist/bundles/*.js"},"bundles":{"bundles/app1":["jquery","app1"]}});
//
// # Usage
//
// Name the bundles, then build the manifest:
//
//	manifest.NameAll(bundles)
//	m := manifest.Build(bundles, manifest.Options{Main: "app/main"})
//	if err := m.WriteFile("bundles.json"); err != nil {
//	    log.Fatal(err)
//	}
//
// Read it back:
//
//	m, err := manifest.ReadFile("bundles.json")
//
// Physical file names are the bundle name plus its build type extension,
// e.g. "bundles/app1-app2.js". Where the files are finally stored is the
// writer's concern; Paths only remaps the default "bundles/" location.
package manifest
