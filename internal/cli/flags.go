package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cargotree/internal/config"
	"github.com/matzehuels/cargotree/pkg/errors"
	"github.com/matzehuels/cargotree/pkg/metadata"
	"github.com/matzehuels/cargotree/pkg/render"
)

// treeFlags are the resolution and display flags shared by every command
// that loads a tree.
type treeFlags struct {
	manifestPath      string
	metadataFile      string
	depth             int
	charset           string
	noToggles         bool
	features          []string
	allFeatures       bool
	noDefaultFeatures bool
	targets           []string
	locked            bool
	offline           bool
	noCache           bool
	watch             bool
}

func (f *treeFlags) register(cmd *cobra.Command) {
	fs := cmd.PersistentFlags()
	fs.StringVar(&f.manifestPath, "manifest-path", "", "path to Cargo.toml")
	fs.StringVar(&f.metadataFile, "metadata-file", "", "read a saved `cargo metadata --format-version 1` document instead of running cargo")
	fs.IntVarP(&f.depth, "depth", "d", 0, "initial expansion depth (0 expands everything)")
	fs.StringVar(&f.charset, "charset", "", "tree glyphs: unicode or ascii")
	fs.BoolVar(&f.noToggles, "no-toggles", false, "hide the expand/collapse markers")
	fs.StringSliceVarP(&f.features, "features", "F", nil, "space or comma separated list of features to activate")
	fs.BoolVar(&f.allFeatures, "all-features", false, "activate all available features")
	fs.BoolVar(&f.noDefaultFeatures, "no-default-features", false, "do not activate the default feature")
	fs.StringSliceVar(&f.targets, "target", nil, "only include dependencies for the given target triples")
	fs.BoolVar(&f.locked, "locked", false, "require Cargo.lock to be up to date")
	fs.BoolVar(&f.offline, "offline", false, "run without accessing the network")
	fs.BoolVar(&f.noCache, "no-cache", false, "always run cargo metadata, bypassing the cache")
	fs.BoolVar(&f.watch, "watch", false, "reload when Cargo.toml or Cargo.lock change")

	_ = cmd.RegisterFlagCompletionFunc("charset", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{render.CharsetUnicode, render.CharsetASCII}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.MarkPersistentFlagFilename("manifest-path", "toml")
	_ = cmd.MarkPersistentFlagFilename("metadata-file", "json")
}

// settings is the merged result of config file, environment and flags.
type settings struct {
	metadata     metadata.Options
	metadataFile string
	cargo        string
	depth        int
	style        render.Style
	watch        bool
	cacheEnabled bool
	cfg          *config.Config
}

// resolve overlays the flags the user set on cfg and validates the result.
func (f *treeFlags) resolve(cmd *cobra.Command, cfg *config.Config) (*settings, error) {
	changed := func(name string) bool { return cmd.Flags().Changed(name) }

	if changed("depth") {
		cfg.Depth = f.depth
	}
	if changed("charset") {
		cfg.Charset = f.charset
	}
	if f.noToggles {
		cfg.ShowToggles = false
	}
	if changed("watch") {
		cfg.Watch = f.watch
	}
	if f.noCache {
		cfg.Cache.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid option")
	}

	if f.manifestPath != "" {
		if err := errors.ValidateManifestPath(f.manifestPath); err != nil {
			return nil, err
		}
	}
	for _, t := range f.targets {
		if err := errors.ValidateTargetTriple(t); err != nil {
			return nil, err
		}
	}
	if f.manifestPath != "" && f.metadataFile != "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "--manifest-path and --metadata-file cannot be combined")
	}

	return &settings{
		metadata: metadata.Options{
			ManifestPath:      f.manifestPath,
			Features:          splitFeatures(f.features),
			AllFeatures:       f.allFeatures,
			NoDefaultFeatures: f.noDefaultFeatures,
			FilterPlatform:    f.targets,
			Locked:            f.locked,
			Offline:           f.offline,
		},
		metadataFile: f.metadataFile,
		cargo:        cfg.Cargo,
		depth:        cfg.Depth,
		style: render.Style{
			Symbols:     cfg.Symbols(),
			ShowToggles: cfg.ShowToggles,
			Theme:       render.DefaultTheme(),
		},
		watch:        cfg.Watch,
		cacheEnabled: cfg.Cache.Enabled,
		cfg:          cfg,
	}, nil
}

// splitFeatures accepts both `-F a,b` and `-F "a b"`.
func splitFeatures(in []string) []string {
	var out []string
	for _, v := range in {
		out = append(out, strings.Fields(strings.ReplaceAll(v, ",", " "))...)
	}
	return out
}
