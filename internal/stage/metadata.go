package stage

import (
	"path"
	"slices"
	"sort"
	"strings"
)

// MetadataTemplate holds the fixed descriptor fields that do not depend on the version.
type MetadataTemplate struct {
	Name         string
	Packages     []string
	PackageDir   map[string]string
	Scripts      []string
	TestSuite    string
	TestsRequire []string
	Author       string
	AuthorEmail  string
	Description  string
	License      string
	Keywords     string
	URL          string
}

// DefaultMetadata returns the descriptor fields of the avro-python3 distribution.
func DefaultMetadata() MetadataTemplate {
	return MetadataTemplate{
		Name:         "avro-python3",
		Packages:     []string{"avro"},
		PackageDir:   map[string]string{"avro": "avro"},
		Scripts:      []string{"scripts/avro"},
		TestSuite:    "avro.tests.run_tests",
		TestsRequire: []string{},
		Author:       "Apache Avro",
		AuthorEmail:  "avro-dev@hadoop.apache.org",
		Description:  "Avro is a serialization and RPC framework.",
		License:      "Apache License 2.0",
		Keywords:     "avro serialization rpc",
		URL:          "http://hadoop.apache.org/avro",
	}
}

// PackageMetadata is the descriptor handed to the package builder.
type PackageMetadata struct {
	Name               string              `toml:"name"`
	Version            string              `toml:"version"`
	Packages           []string            `toml:"packages"`
	PackageDir         map[string]string   `toml:"package_dir"`
	Scripts            []string            `toml:"scripts"`
	IncludePackageData bool                `toml:"include_package_data"`
	PackageData        map[string][]string `toml:"package_data"`
	TestSuite          string              `toml:"test_suite,omitempty"`
	TestsRequire       []string            `toml:"tests_require"`
	Author             string              `toml:"author"`
	AuthorEmail        string              `toml:"author_email"`
	Description        string              `toml:"description"`
	License            string              `toml:"license"`
	Keywords           string              `toml:"keywords"`
	URL                string              `toml:"url"`
}

// BuildMetadata assembles the descriptor for version. It performs no I/O.
// Package data lists, per package, the package-data resources and the staged
// version file that live under the package directory, in manifest order.
func BuildMetadata(layout Layout, tmpl MetadataTemplate, version string) PackageMetadata {
	packageDir := make(map[string]string, len(tmpl.PackageDir))
	for pkg, dir := range tmpl.PackageDir {
		packageDir[pkg] = dir
	}

	staged := make([]string, 0, len(layout.Resources)+1)
	for _, res := range layout.Resources {
		if res.PackageData {
			staged = append(staged, res.Dest)
		}
	}
	if layout.VersionDest != "" {
		staged = append(staged, layout.VersionDest)
	}

	packageData := make(map[string][]string)
	packages := slices.Clone(tmpl.Packages)
	sort.Strings(packages)
	for _, pkg := range packages {
		dir := packageDir[pkg]
		if dir == "" {
			dir = strings.ReplaceAll(pkg, ".", "/")
		}
		prefix := path.Clean(dir) + "/"
		for _, dest := range staged {
			if rel, ok := strings.CutPrefix(path.Clean(dest), prefix); ok {
				packageData[pkg] = append(packageData[pkg], rel)
			}
		}
	}

	testsRequire := slices.Clone(tmpl.TestsRequire)
	if testsRequire == nil {
		testsRequire = []string{}
	}

	return PackageMetadata{
		Name:               tmpl.Name,
		Version:            version,
		Packages:           slices.Clone(tmpl.Packages),
		PackageDir:         packageDir,
		Scripts:            slices.Clone(tmpl.Scripts),
		IncludePackageData: len(packageData) > 0,
		PackageData:        packageData,
		TestSuite:          tmpl.TestSuite,
		TestsRequire:       testsRequire,
		Author:             tmpl.Author,
		AuthorEmail:        tmpl.AuthorEmail,
		Description:        tmpl.Description,
		License:            tmpl.License,
		Keywords:           tmpl.Keywords,
		URL:                tmpl.URL,
	}
}
