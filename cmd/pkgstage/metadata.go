package main

import (
	"github.com/spf13/cobra"

	"github.com/conn-castle/pkgstage/internal/builder"
	"github.com/conn-castle/pkgstage/internal/messages"
	"github.com/conn-castle/pkgstage/internal/stage"
)

// newMetadataCmd prints the descriptor the builder would receive. Nothing is written.
func newMetadataCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   messages.MetadataUse,
		Short: messages.MetadataShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveSession(cmd, flags)
			if err != nil {
				return err
			}
			printer := builder.Print{W: cmd.OutOrStdout()}
			asm, err := stage.New(stage.Options{
				SharedRoot: s.sharedRoot,
				ModuleDir:  s.moduleDir,
				Layout:     s.cfg.StageLayout(),
				Metadata:   s.cfg.StageMetadata(),
				Builder:    printer,
				System:     stage.RealSystem{},
				Logger:     s.logger,
			})
			if err != nil {
				return err
			}
			v, err := asm.ReadVersion()
			if err != nil {
				return err
			}
			return printer.Build(cmd.Context(), messages.MetadataUse, asm.BuildMetadata(v))
		},
	}
}
