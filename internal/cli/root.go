package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/brandonbloom/mkf/internal/config"
	"github.com/brandonbloom/mkf/internal/version"
)

func Execute() error {
	return newRootCommand().Execute()
}

type rootOptions struct {
	suffix      string
	eofMarker   string
	placeholder string
	reopen      bool
	tempDir     string
	verbose     bool
	logLevel    string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "mkf [flags] [utility [arguments...]]",
		Short: "Capture stdin into a temporary file and run a command on it",
		Long: `mkf reads all of standard input into a file inside a private temporary
directory, then runs utility with the file's path substituted for the
placeholder (-I) or appended to the arguments. The directory is removed
once utility exits, and mkf exits with utility's status.`,
		Example: `  git show HEAD:main.go | mkf -s .go vim -R
  curl -s $URL | mkf -I {} jq . {}
  mkf -E . wc -l`,
		Version:       version.String(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	// Everything after the utility belongs to the utility.
	flags.SetInterspersed(false)
	flags.StringVarP(&opts.suffix, "suffix", "s", "", "suffix for the generated file name, e.g. .json (must not contain a slash)")
	flags.StringVarP(&opts.eofMarker, "eofstr", "E", "", "read stdin as text and stop at a line equal to `marker`")
	flags.StringVarP(&opts.placeholder, "replstr", "I", "", "replace `token` in every argument with the file path instead of appending it")
	flags.BoolVarP(&opts.reopen, "reopen", "o", false, "give utility the controlling terminal as stdin")
	flags.StringVar(&opts.tempDir, "temp-dir", "", "create the workspace under `dir` instead of the system default")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "print the command line before running it")
	flags.StringVar(&opts.logLevel, "log-level", "", "lifecycle log level: debug, info, warn, or error")
	return cmd
}

// invocation is the fully resolved configuration for one run.
type invocation struct {
	config.Config
	Args    []string
	Verbose bool
}

// resolveInvocation layers flags over the config file over built-in defaults.
func resolveInvocation(cmd *cobra.Command, opts *rootOptions, args []string) (invocation, error) {
	cfg, err := config.Load(config.Path())
	if err != nil {
		return invocation{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("suffix") {
		cfg.Suffix = opts.suffix
	}
	if flags.Changed("eofstr") {
		marker := opts.eofMarker
		cfg.EOFMarker = &marker
	}
	if flags.Changed("replstr") {
		placeholder := opts.placeholder
		cfg.Placeholder = &placeholder
	}
	if flags.Changed("reopen") {
		cfg.ReopenTTY = opts.reopen
	}
	if flags.Changed("temp-dir") {
		cfg.TempDir = opts.tempDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = strings.ToLower(opts.logLevel)
	}
	if len(args) > 0 {
		cfg.Utility = args[0]
		args = args[1:]
	}
	if err := cfg.Validate(); err != nil {
		return invocation{}, err
	}

	return invocation{Config: cfg, Args: args, Verbose: opts.verbose}, nil
}

func runRoot(cmd *cobra.Command, opts *rootOptions, args []string) error {
	inv, err := resolveInvocation(cmd, opts, args)
	if err != nil {
		return err
	}
	level, err := inv.Level()
	if err != nil {
		return err
	}
	log := newLogger(cmd.ErrOrStderr(), level)
	defer log.Sync()

	r := &runner{
		inv:    inv,
		stdin:  cmd.InOrStdin(),
		stdout: cmd.OutOrStdout(),
		stderr: cmd.ErrOrStderr(),
		log:    log,
	}
	return r.run(cmd.Context())
}
