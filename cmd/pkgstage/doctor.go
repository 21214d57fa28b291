package main

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/pkgstage/internal/doctor"
	"github.com/conn-castle/pkgstage/internal/messages"
)

var runtimeVersion = runtime.Version

func newDoctorCmd(flags *rootFlags) *cobra.Command {
	var builderOverride string
	cmd := &cobra.Command{
		Use:   messages.DoctorUse,
		Short: messages.DoctorShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveSession(cmd, flags)
			if err != nil {
				return err
			}
			command := s.cfg.Builder.Command
			if strings.TrimSpace(builderOverride) != "" {
				command = strings.Fields(builderOverride)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, messages.DoctorHealthCheckFmt, s.moduleDir)
			results := doctor.Run(doctor.Target{
				SharedRoot:     s.sharedRoot,
				ModuleDir:      s.moduleDir,
				Layout:         s.cfg.StageLayout(),
				BuilderCommand: command,
				RuntimeVersion: runtimeVersion(),
			})
			for _, r := range results {
				printResult(out, r)
			}
			if doctor.HasFailure(results) {
				_, _ = fmt.Fprintln(out, color.RedString(messages.DoctorFailureSummary))
				return errors.New(messages.DoctorFailureError)
			}
			_, _ = fmt.Fprintln(out, color.GreenString(messages.DoctorSuccessSummary))
			return nil
		},
	}
	cmd.Flags().StringVar(&builderOverride, "builder", "", messages.FlagBuilder)
	return cmd
}

func printResult(out io.Writer, r doctor.Result) {
	var status string
	switch r.Status {
	case doctor.StatusOK:
		status = color.GreenString(messages.DoctorStatusOKLabel)
	case doctor.StatusWarn:
		status = color.YellowString(messages.DoctorStatusWarnLabel)
	case doctor.StatusFail:
		status = color.RedString(messages.DoctorStatusFailLabel)
	}
	_, _ = fmt.Fprintf(out, messages.DoctorResultLineFmt, status, r.CheckName, r.Message)
	if r.Recommendation != "" {
		_, _ = fmt.Fprintf(out, "%s%s\n", messages.DoctorRecommendationPrefix, r.Recommendation)
	}
}
