package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/pkgstage/internal/builder"
	"github.com/conn-castle/pkgstage/internal/config"
	"github.com/conn-castle/pkgstage/internal/envfile"
	"github.com/conn-castle/pkgstage/internal/lock"
	"github.com/conn-castle/pkgstage/internal/logging"
	"github.com/conn-castle/pkgstage/internal/messages"
	"github.com/conn-castle/pkgstage/internal/root"
	"github.com/conn-castle/pkgstage/internal/stage"
)

var getwd = os.Getwd
var lockWith = lock.With
var findModuleDir = root.FindModuleDir

// rootFlags holds the flags shared by every command.
type rootFlags struct {
	configPath string
	moduleDir  string
	sharedRoot string
	verbose    bool
	quiet      bool

	builder   string
	preflight bool
	diff      bool
	diffLines int
	dryRun    bool
}

// session is the resolved module, config, and logger for one invocation.
type session struct {
	cfg        *config.Config
	configPath string
	configRead bool
	moduleDir  string
	sharedRoot string
	logger     *log.Logger
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		Long:          messages.RootLong,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			verb := messages.RootDefaultVerb
			if len(args) == 1 {
				verb = args[0]
			}
			return runAssemble(cmd, flags, verb)
		},
	}

	persistent := cmd.PersistentFlags()
	persistent.StringVar(&flags.configPath, "config", "", messages.FlagConfig)
	persistent.StringVar(&flags.moduleDir, "module-dir", "", messages.FlagModuleDir)
	persistent.StringVar(&flags.sharedRoot, "shared-root", "", messages.FlagSharedRoot)
	persistent.BoolVarP(&flags.verbose, "verbose", "v", false, messages.FlagVerbose)
	persistent.BoolVarP(&flags.quiet, "quiet", "q", false, messages.FlagQuiet)

	local := cmd.Flags()
	local.StringVar(&flags.builder, "builder", "", messages.FlagBuilder)
	local.BoolVar(&flags.preflight, "preflight", false, messages.FlagPreflight)
	local.BoolVar(&flags.diff, "diff", false, messages.FlagDiff)
	local.IntVar(&flags.diffLines, "diff-lines", stage.DefaultDiffMaxLines, messages.FlagDiffLines)
	local.BoolVar(&flags.dryRun, "dry-run", false, messages.FlagDryRun)

	cmd.AddCommand(newMetadataCmd(flags), newManifestCmd(flags), newDoctorCmd(flags))
	return cmd
}

// runAssemble runs the full pipeline under the module lock and prints a summary.
func runAssemble(cmd *cobra.Command, flags *rootFlags, verb string) error {
	if err := validateVerb(verb); err != nil {
		return err
	}
	s, err := resolveSession(cmd, flags)
	if err != nil {
		return err
	}
	b, err := selectBuilder(cmd, flags, s)
	if err != nil {
		return err
	}
	asm, err := stage.New(stage.Options{
		SharedRoot:   s.sharedRoot,
		ModuleDir:    s.moduleDir,
		Layout:       s.cfg.StageLayout(),
		Metadata:     s.cfg.StageMetadata(),
		Builder:      b,
		System:       stage.RealSystem{},
		Logger:       s.logger,
		Preflight:    flags.preflight,
		Diff:         flags.diff,
		DiffMaxLines: flags.diffLines,
	})
	if err != nil {
		return err
	}

	var res stage.Result
	err = lockWith(lock.PathFor(s.moduleDir), func() error {
		var runErr error
		res, runErr = asm.Run(cmd.Context(), verb)
		return runErr
	})
	if err != nil {
		warnPartialStaging(cmd.ErrOrStderr(), res)
		return err
	}
	if flags.quiet {
		return nil
	}
	out := cmd.OutOrStdout()
	if flags.dryRun {
		out = cmd.ErrOrStderr()
	}
	printSummary(out, res, s.moduleDir, verb, flags.dryRun)
	return nil
}

// validateVerb rejects verbs that would not survive as a single builder argument.
func validateVerb(verb string) error {
	fields := strings.Fields(verb)
	if len(fields) != 1 || fields[0] != verb || strings.HasPrefix(verb, "-") {
		return fmt.Errorf(messages.CLIVerbInvalidFmt, verb)
	}
	return nil
}

// resolveSession locates the module and its config. Flags win over the config file.
func resolveSession(cmd *cobra.Command, flags *rootFlags) (*session, error) {
	if flags.verbose && flags.quiet {
		return nil, errors.New(messages.CLIFlagsQuietVerbose)
	}
	cwd, err := getwd()
	if err != nil {
		return nil, err
	}

	var configPath string
	if strings.TrimSpace(flags.configPath) != "" {
		configPath, err = config.ResolvePath(cwd, flags.configPath)
		if err != nil {
			return nil, err
		}
	}

	moduleDir := cwd
	switch {
	case strings.TrimSpace(flags.moduleDir) != "":
		moduleDir, err = config.ResolvePath(cwd, flags.moduleDir)
		if err != nil {
			return nil, fmt.Errorf(messages.CLIResolveModuleDirFmt, flags.moduleDir, err)
		}
	case configPath != "":
		moduleDir = filepath.Dir(configPath)
	default:
		dir, found, err := findModuleDir(cwd)
		if err != nil {
			return nil, fmt.Errorf(messages.CLIResolveModuleDirFmt, cwd, err)
		}
		if found {
			moduleDir = dir
		}
	}

	s := &session{moduleDir: moduleDir}
	if configPath != "" {
		s.cfg, err = config.Load(configPath)
		s.configRead = err == nil
	} else {
		configPath = filepath.Join(moduleDir, config.DefaultFileName)
		s.cfg, s.configRead, err = config.LoadOrDefault(configPath)
	}
	if err != nil {
		return nil, err
	}
	s.configPath = configPath

	if strings.TrimSpace(flags.sharedRoot) != "" {
		s.sharedRoot, err = config.ResolvePath(cwd, flags.sharedRoot)
	} else {
		s.sharedRoot, err = s.cfg.ResolveSharedRoot(moduleDir)
	}
	if err != nil {
		return nil, fmt.Errorf(messages.CLIResolveSharedRootFmt, moduleDir, err)
	}

	s.logger = logging.New(cmd.ErrOrStderr(), logging.Options{Verbose: flags.verbose, Quiet: flags.quiet})
	s.logger.Debug("resolved module", "module", s.moduleDir, "shared_root", s.sharedRoot, "config", s.configPath, "config_read", s.configRead)
	return s, nil
}

// selectBuilder returns the descriptor printer for --dry-run and the configured
// command otherwise.
func selectBuilder(cmd *cobra.Command, flags *rootFlags, s *session) (stage.Builder, error) {
	if flags.dryRun {
		return builder.Print{W: cmd.OutOrStdout()}, nil
	}
	command := s.cfg.Builder.Command
	if strings.TrimSpace(flags.builder) != "" {
		command = strings.Fields(flags.builder)
	}
	if len(command) == 0 {
		return nil, errors.New(messages.CLIBuilderNotConfigured)
	}
	var env []string
	if path := s.cfg.EnvFilePath(s.moduleDir); path != "" {
		vars, err := envfile.Load(path)
		if err != nil {
			return nil, err
		}
		env = append(os.Environ(), vars...)
	}
	return &builder.Exec{
		Command:      command,
		Dir:          s.moduleDir,
		MetadataPath: s.cfg.MetadataPath(s.moduleDir),
		Timeout:      s.cfg.BuilderTimeout(),
		Stdout:       cmd.OutOrStdout(),
		Stderr:       cmd.ErrOrStderr(),
		Env:          env,
		Logger:       s.logger,
	}, nil
}

var (
	statusColors = map[stage.Status]*color.Color{
		stage.StatusCreated:   color.New(color.FgGreen),
		stage.StatusUpdated:   color.New(color.FgYellow),
		stage.StatusUnchanged: color.New(color.Faint),
	}
	warnColor = color.New(color.FgYellow)
)

// printSummary lists every staged destination with its status and optional diff.
func printSummary(out io.Writer, res stage.Result, moduleDir string, verb string, dryRun bool) {
	_, _ = fmt.Fprintf(out, messages.CLISummaryHeaderFmt, res.Metadata.Name, res.Version, moduleDir)
	for _, change := range res.Report.Changes {
		status := string(change.Status)
		if c, ok := statusColors[change.Status]; ok {
			status = c.Sprintf("%-9s", status)
		}
		_, _ = fmt.Fprintf(out, messages.CLISummaryEntryFmt, status, change.Path)
		if change.Diff != "" {
			_, _ = fmt.Fprint(out, change.Diff)
		}
	}
	if dryRun {
		_, _ = fmt.Fprintln(out, messages.CLISummaryDryRun)
		return
	}
	_, _ = fmt.Fprintf(out, messages.CLISummaryHandedOffFmt, verb)
}

// warnPartialStaging lists files written before a failure, since they are not rolled back.
func warnPartialStaging(out io.Writer, res stage.Result) {
	paths := res.Report.Paths()
	if len(paths) == 0 {
		return
	}
	_, _ = warnColor.Fprintf(out, messages.CLIWarnPartialStagingFmt, res.Reached)
	for _, p := range paths {
		_, _ = warnColor.Fprintf(out, messages.CLIWarnPartialStagingEntry, p)
	}
}
