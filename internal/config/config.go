// Package config loads pkgstage.toml, which describes where a module's shared
// resources live, what gets staged, and how the package builder is invoked.
package config

import (
	"time"

	"github.com/conn-castle/pkgstage/internal/stage"
)

// DefaultFileName is the config file looked up in the module directory.
const DefaultFileName = "pkgstage.toml"

// DefaultMetadataFile is where the exec builder writes the descriptor, relative to the module.
const DefaultMetadataFile = ".pkgstage/metadata.toml"

// Config is the decoded pkgstage.toml.
type Config struct {
	Layout    LayoutConfig     `toml:"layout"`
	Resources []ResourceConfig `toml:"resources"`
	Metadata  MetadataConfig   `toml:"metadata"`
	Builder   BuilderConfig    `toml:"builder"`
}

// LayoutConfig locates the shared root and the fixed staging paths.
type LayoutConfig struct {
	// SharedRoot overrides ascension; relative values resolve against the module dir.
	SharedRoot  string `toml:"shared_root"`
	Ascend      *int   `toml:"ascend"`
	VersionFile string `toml:"version_file"`
	VersionDest string `toml:"version_dest"`
	Launcher    string `toml:"launcher"`
	// MinRuntime set to "" disables the runtime check.
	MinRuntime *string `toml:"min_runtime"`
}

// ResourceConfig is one [[resources]] entry.
type ResourceConfig struct {
	Name        string `toml:"name"`
	Source      string `toml:"source"`
	Dest        string `toml:"dest"`
	PackageData bool   `toml:"package_data"`
}

// MetadataConfig holds the fixed descriptor fields.
type MetadataConfig struct {
	Name         string            `toml:"name"`
	Packages     []string          `toml:"packages"`
	PackageDir   map[string]string `toml:"package_dir"`
	Scripts      []string          `toml:"scripts"`
	TestSuite    string            `toml:"test_suite"`
	TestsRequire []string          `toml:"tests_require"`
	Author       string            `toml:"author"`
	AuthorEmail  string            `toml:"author_email"`
	Description  string            `toml:"description"`
	License      string            `toml:"license"`
	Keywords     string            `toml:"keywords"`
	URL          string            `toml:"url"`
}

// BuilderConfig configures the external package builder command.
type BuilderConfig struct {
	Command      []string `toml:"command"`
	Timeout      string   `toml:"timeout"`
	MetadataFile string   `toml:"metadata_file"`
	// EnvFile is a dotenv file, relative to the module, whose variables are added
	// to the builder environment.
	EnvFile string `toml:"env_file"`
}

// Default returns the configuration for the Avro Python 3 module.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills every unset field from the built-in layout.
// [metadata] is all-or-nothing: a partial table is kept as written.
func (c *Config) applyDefaults() {
	layout := stage.DefaultLayout()
	if c.Layout.Ascend == nil {
		ascend := stage.DefaultAscend
		c.Layout.Ascend = &ascend
	}
	if c.Layout.VersionFile == "" {
		c.Layout.VersionFile = layout.VersionFile
	}
	if c.Layout.VersionDest == "" {
		c.Layout.VersionDest = layout.VersionDest
	}
	if c.Layout.Launcher == "" {
		c.Layout.Launcher = layout.Launcher
	}
	if c.Layout.MinRuntime == nil {
		minRuntime := layout.MinRuntime
		c.Layout.MinRuntime = &minRuntime
	}
	if len(c.Resources) == 0 {
		for _, res := range layout.Resources {
			c.Resources = append(c.Resources, ResourceConfig{
				Name:        res.Name,
				Source:      res.Source,
				Dest:        res.Dest,
				PackageData: res.PackageData,
			})
		}
	}
	if c.Metadata.isZero() {
		md := stage.DefaultMetadata()
		c.Metadata = MetadataConfig{
			Name:         md.Name,
			Packages:     md.Packages,
			PackageDir:   md.PackageDir,
			Scripts:      md.Scripts,
			TestSuite:    md.TestSuite,
			TestsRequire: md.TestsRequire,
			Author:       md.Author,
			AuthorEmail:  md.AuthorEmail,
			Description:  md.Description,
			License:      md.License,
			Keywords:     md.Keywords,
			URL:          md.URL,
		}
	}
	if c.Builder.MetadataFile == "" {
		c.Builder.MetadataFile = DefaultMetadataFile
	}
}

func (m MetadataConfig) isZero() bool {
	return m.Name == "" && len(m.Packages) == 0 && len(m.PackageDir) == 0 && len(m.Scripts) == 0 &&
		m.TestSuite == "" && len(m.TestsRequire) == 0 && m.Author == "" && m.AuthorEmail == "" &&
		m.Description == "" && m.License == "" && m.Keywords == "" && m.URL == ""
}

// StageLayout converts the config into the assembler's layout.
func (c *Config) StageLayout() stage.Layout {
	layout := stage.Layout{
		VersionFile: c.Layout.VersionFile,
		VersionDest: c.Layout.VersionDest,
		Launcher:    c.Layout.Launcher,
	}
	if c.Layout.MinRuntime != nil {
		layout.MinRuntime = *c.Layout.MinRuntime
	}
	for _, res := range c.Resources {
		layout.Resources = append(layout.Resources, stage.Resource{
			Name:        res.Name,
			Source:      res.Source,
			Dest:        res.Dest,
			PackageData: res.PackageData,
		})
	}
	return layout
}

// StageMetadata converts [metadata] into the assembler's descriptor template.
func (c *Config) StageMetadata() stage.MetadataTemplate {
	m := c.Metadata
	return stage.MetadataTemplate{
		Name:         m.Name,
		Packages:     m.Packages,
		PackageDir:   m.PackageDir,
		Scripts:      m.Scripts,
		TestSuite:    m.TestSuite,
		TestsRequire: m.TestsRequire,
		Author:       m.Author,
		AuthorEmail:  m.AuthorEmail,
		Description:  m.Description,
		License:      m.License,
		Keywords:     m.Keywords,
		URL:          m.URL,
	}
}

// BuilderTimeout returns the parsed builder timeout; zero means no timeout.
// Validate has already rejected unparsable values.
func (c *Config) BuilderTimeout() time.Duration {
	if c.Builder.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Builder.Timeout)
	if err != nil {
		return 0
	}
	return d
}
