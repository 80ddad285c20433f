// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/tyemirov/collect/internal/config"
	"github.com/tyemirov/collect/internal/sink"
	"github.com/tyemirov/collect/internal/tokenizer"
	"github.com/tyemirov/collect/internal/utils"
)

const (
	outputFlagName       = "output"
	outputFlagShorthand  = "o"
	treeFlagName         = "tree"
	copyFlagName         = "copy"
	noGitignoreFlagName  = "no-gitignore"
	ignoreFileFlagName   = "ignore-file"
	exclusionFlagName    = "exclude"
	exclusionShorthand   = "e"
	maxSizeFlagName      = "max-size-kb"
	keepEmptyFlagName    = "keep-empty"
	showExcludedFlagName = "show-excluded"
	tokensFlagName       = "tokens"
	modelFlagName        = "model"
	configFlagName       = "config"
	verboseFlagName      = "verbose"
	versionFlagName      = "version"
	globalFlagName       = "global"
	forceFlagName        = "force"

	defaultPath          = "."
	versionTemplate      = "collect version: %s\n"
	rootUse              = "collect [path]"
	rootShortDescription = "collect file contents into one document"
	rootLongDescription  = `collect walks a directory (or reads a single file) and concatenates every
included text file into one document, optionally preceded by the directory tree.
Hidden entries, binary files, empty files and paths matched by .gitignore rules
are left out. The document is written to --output and copied to the clipboard.`
	rootUsageExample = `  # Collect the current directory into context.txt
  collect

  # Collect ./src without the tree and without touching the clipboard
  collect --tree no --copy off ./src

  # Exclude generated files and estimate the token count
  collect -e "*.pb.go" -e vendor/ --tokens .`
	initUse              = "init"
	initShortDescription = "write the default configuration file"
	initLongDescription  = `Write the default configuration to ./` + utils.LocalConfigFileName + `, or to
~/` + utils.GlobalConfigDirectoryName + `/` + utils.GlobalConfigFileName + ` with --global.`

	outputFlagDescription       = "output file path"
	treeFlagDescription         = "include the directory tree"
	copyFlagDescription         = "copy the document to the clipboard"
	noGitignoreFlagDescription  = "do not read .gitignore"
	ignoreFileFlagDescription   = "read ignore patterns from this file instead of .gitignore"
	exclusionFlagDescription    = "exclude path pattern (repeatable)"
	maxSizeFlagDescription      = "skip files larger than this many kilobytes (0 disables the limit)"
	keepEmptyFlagDescription    = "keep empty and whitespace-only files"
	showExcludedFlagDescription = "list excluded entries in the tree"
	tokensFlagDescription       = "estimate the token count of the document"
	modelFlagDescription        = "tokenizer model used for the estimate"
	configFlagDescription       = "configuration file to use instead of ./" + utils.LocalConfigFileName
	verboseFlagDescription      = "log debug diagnostics"
	versionFlagDescription      = "display application version"
	globalFlagDescription       = "write the global configuration"
	forceFlagDescription        = "overwrite an existing configuration file"

	initWrittenFormat           = "Configuration written to %s\n"
	errorWorkingDirectoryFormat = "unable to determine working directory: %w"
	errorLoggerFormat           = "initialize logger: %w"
)

// Dependencies are the collaborators of a command run. Zero values are
// replaced by the production implementations.
type Dependencies struct {
	FileSystem       afero.Fs
	Copier           sink.Copier
	Stdout           io.Writer
	WorkingDirectory string
	HomeDirectory    string
	ColoredOutput    bool
	NewLogger        func(verbose bool) (*zap.Logger, error)
	NewCounter       func(model string) (tokenizer.Counter, string, error)
}

func (dependencies Dependencies) withDefaults() (Dependencies, error) {
	if dependencies.FileSystem == nil {
		dependencies.FileSystem = afero.NewOsFs()
	}
	if dependencies.Copier == nil {
		dependencies.Copier = sink.SystemClipboard{}
	}
	if dependencies.Stdout == nil {
		dependencies.Stdout = os.Stdout
	}
	if dependencies.WorkingDirectory == "" {
		workingDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return Dependencies{}, fmt.Errorf(errorWorkingDirectoryFormat, workingDirectoryError)
		}
		dependencies.WorkingDirectory = workingDirectory
	}
	if dependencies.NewLogger == nil {
		stderrColored := utils.StderrIsTerminal()
		dependencies.NewLogger = func(verbose bool) (*zap.Logger, error) {
			return utils.NewApplicationLogger(utils.LoggerOptions{Verbose: verbose, Colored: stderrColored})
		}
	}
	if dependencies.NewCounter == nil {
		dependencies.NewCounter = tokenizer.NewCounter
	}
	return dependencies, nil
}

// Execute runs the collect application.
func Execute() error {
	rootCommand := NewRootCommand(Dependencies{
		ColoredOutput: term.IsTerminal(int(os.Stdout.Fd())),
	})
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// collectFlags holds the raw flag values of the root command.
type collectFlags struct {
	outputPath        string
	includeTree       bool
	copyToClipboard   bool
	disableGitignore  bool
	ignoreFilePath    string
	exclusionPatterns []string
	maxFileSizeKB     int64
	keepEmpty         bool
	showExcluded      bool
	countTokens       bool
	tokenModel        string
	configPath        string
	verbose           bool
	showVersion       bool
}

// NewRootCommand builds the root Cobra command.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	var flags collectFlags

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			resolvedDependencies, dependencyError := dependencies.withDefaults()
			if dependencyError != nil {
				return dependencyError
			}
			if flags.showVersion {
				fmt.Fprintf(resolvedDependencies.Stdout, versionTemplate, utils.GetApplicationVersion())
				return nil
			}
			rootPath := defaultPath
			if len(arguments) > 0 {
				rootPath = arguments[0]
			}
			logger, loggerError := resolvedDependencies.NewLogger(flags.verbose)
			if loggerError != nil {
				return fmt.Errorf(errorLoggerFormat, loggerError)
			}
			defer logger.Sync()
			return runCollect(command, resolvedDependencies, logger, flags, rootPath)
		},
	}

	flagSet := rootCommand.Flags()
	flagSet.StringVarP(&flags.outputPath, outputFlagName, outputFlagShorthand, config.DefaultOutputPath, outputFlagDescription)
	registerBooleanFlag(flagSet, &flags.includeTree, treeFlagName, true, treeFlagDescription)
	registerBooleanFlag(flagSet, &flags.copyToClipboard, copyFlagName, true, copyFlagDescription)
	registerBooleanFlag(flagSet, &flags.disableGitignore, noGitignoreFlagName, false, noGitignoreFlagDescription)
	flagSet.StringVar(&flags.ignoreFilePath, ignoreFileFlagName, "", ignoreFileFlagDescription)
	flagSet.StringArrayVarP(&flags.exclusionPatterns, exclusionFlagName, exclusionShorthand, nil, exclusionFlagDescription)
	flagSet.Int64Var(&flags.maxFileSizeKB, maxSizeFlagName, 0, maxSizeFlagDescription)
	registerBooleanFlag(flagSet, &flags.keepEmpty, keepEmptyFlagName, false, keepEmptyFlagDescription)
	registerBooleanFlag(flagSet, &flags.showExcluded, showExcludedFlagName, true, showExcludedFlagDescription)
	registerBooleanFlag(flagSet, &flags.countTokens, tokensFlagName, false, tokensFlagDescription)
	flagSet.StringVar(&flags.tokenModel, modelFlagName, config.DefaultTokenModel, modelFlagDescription)
	flagSet.StringVar(&flags.configPath, configFlagName, "", configFlagDescription)
	registerBooleanFlag(flagSet, &flags.verbose, verboseFlagName, false, verboseFlagDescription)
	registerBooleanFlag(flagSet, &flags.showVersion, versionFlagName, false, versionFlagDescription)

	rootCommand.AddCommand(newInitCommand(dependencies))
	return rootCommand
}

func newInitCommand(dependencies Dependencies) *cobra.Command {
	var writeGlobal bool
	var overwrite bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			resolvedDependencies, dependencyError := dependencies.withDefaults()
			if dependencyError != nil {
				return dependencyError
			}
			target := config.InitTargetLocal
			if writeGlobal {
				target = config.InitTargetGlobal
			}
			writtenPath, initError := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            overwrite,
				WorkingDirectory: resolvedDependencies.WorkingDirectory,
				HomeDirectory:    resolvedDependencies.HomeDirectory,
			})
			if initError != nil {
				return initError
			}
			fmt.Fprintf(resolvedDependencies.Stdout, initWrittenFormat, writtenPath)
			return nil
		},
	}
	registerBooleanFlag(initCommand.Flags(), &writeGlobal, globalFlagName, false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &overwrite, forceFlagName, false, forceFlagDescription)
	return initCommand
}

// resolvePath anchors a relative path at the working directory.
func resolvePath(workingDirectory string, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(workingDirectory, path)
}
