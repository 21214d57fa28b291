package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/conn-castle/pkgstage/internal/messages"
)

// versionEntryName labels the version file in the manifest listing.
const versionEntryName = "version"

func newManifestCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   messages.ManifestUse,
		Short: messages.ManifestShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveSession(cmd, flags)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			layout := s.cfg.StageLayout()
			_, _ = fmt.Fprintf(out, messages.ManifestEntryFmt, versionEntryName,
				filepath.Join(s.sharedRoot, filepath.FromSlash(layout.VersionFile)), layout.VersionDest)
			for _, res := range layout.Resources {
				_, _ = fmt.Fprintf(out, messages.ManifestEntryFmt, res.Name,
					filepath.Join(s.sharedRoot, filepath.FromSlash(res.Source)), res.Dest)
			}
			return nil
		},
	}
}
