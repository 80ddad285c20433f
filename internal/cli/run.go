package cli

import (
	"unicode/utf8"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tyemirov/collect/internal/aggregate"
	"github.com/tyemirov/collect/internal/config"
	"github.com/tyemirov/collect/internal/ignore"
	"github.com/tyemirov/collect/internal/sink"
	"github.com/tyemirov/collect/internal/tokenizer"
	"github.com/tyemirov/collect/internal/traversal"
	"github.com/tyemirov/collect/internal/tree"
	"github.com/tyemirov/collect/internal/types"
	"github.com/tyemirov/collect/internal/utils"
)

const (
	debugConfigurationMessage = "configuration resolved"
	debugPatternsMessage      = "ignore patterns loaded"
	debugWalkMessage          = "walk finished"
	debugDocumentMessage      = "document assembled"
	warningTokenCountMessage  = "Warning: failed to estimate tokens"
)

// runOptions is the effective configuration of one run after defaults,
// configuration files and explicitly set flags are layered.
type runOptions struct {
	rootPath          string
	outputPath        string
	includeTree       bool
	copyToClipboard   bool
	useGitignore      bool
	ignoreFilePath    string
	exclusionPatterns []string
	maxFileSizeBytes  int64
	skipEmpty         bool
	showExcluded      bool
	countTokens       bool
	tokenModel        string
}

func resolveRunOptions(command *cobra.Command, flags collectFlags, loaded config.ApplicationConfiguration, workingDirectory string, rootPath string) runOptions {
	effective := config.DefaultConfiguration().Merge(loaded)
	flagSet := command.Flags()

	if flagSet.Changed(outputFlagName) {
		effective.Output = flags.outputPath
	}
	if flagSet.Changed(treeFlagName) {
		effective.Tree = &flags.includeTree
	}
	if flagSet.Changed(copyFlagName) {
		effective.Clipboard = &flags.copyToClipboard
	}
	if flagSet.Changed(noGitignoreFlagName) {
		useGitignore := !flags.disableGitignore
		effective.Paths.UseGitignore = &useGitignore
	}
	if flagSet.Changed(ignoreFileFlagName) {
		effective.Paths.IgnoreFile = flags.ignoreFilePath
	}
	if flagSet.Changed(exclusionFlagName) {
		effective.Paths.Exclude = append(append([]string{}, effective.Paths.Exclude...), flags.exclusionPatterns...)
	}
	if flagSet.Changed(maxSizeFlagName) {
		effective.Paths.MaxFileSizeKB = &flags.maxFileSizeKB
	}
	if flagSet.Changed(keepEmptyFlagName) {
		effective.Paths.KeepEmpty = &flags.keepEmpty
	}
	if flagSet.Changed(showExcludedFlagName) {
		effective.Paths.ShowExcluded = &flags.showExcluded
	}
	if flagSet.Changed(tokensFlagName) {
		effective.Tokens.Enabled = &flags.countTokens
	}
	if flagSet.Changed(modelFlagName) {
		effective.Tokens.Model = flags.tokenModel
	}

	var maxFileSizeKB int64
	if effective.Paths.MaxFileSizeKB != nil {
		maxFileSizeKB = *effective.Paths.MaxFileSizeKB
	}
	ignoreFilePath := effective.Paths.IgnoreFile
	if ignoreFilePath != "" {
		ignoreFilePath = resolvePath(workingDirectory, ignoreFilePath)
	}

	return runOptions{
		rootPath:          resolvePath(workingDirectory, rootPath),
		outputPath:        resolvePath(workingDirectory, effective.Output),
		includeTree:       config.BoolValue(effective.Tree, true),
		copyToClipboard:   config.BoolValue(effective.Clipboard, true),
		useGitignore:      config.BoolValue(effective.Paths.UseGitignore, true),
		ignoreFilePath:    ignoreFilePath,
		exclusionPatterns: utils.DeduplicatePatterns(effective.Paths.Exclude),
		maxFileSizeBytes:  utils.KilobytesToBytes(maxFileSizeKB),
		skipEmpty:         !config.BoolValue(effective.Paths.KeepEmpty, false),
		showExcluded:      config.BoolValue(effective.Paths.ShowExcluded, true),
		countTokens:       config.BoolValue(effective.Tokens.Enabled, false),
		tokenModel:        effective.Tokens.Model,
	}
}

// runCollect executes the pipeline: patterns, walk, aggregation, delivery and
// the summary. Only configuration and root resolution failures are returned.
func runCollect(command *cobra.Command, dependencies Dependencies, logger *zap.Logger, flags collectFlags, rootPath string) error {
	loadedConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: dependencies.WorkingDirectory,
		ExplicitFilePath: flags.configPath,
		HomeDirectory:    dependencies.HomeDirectory,
	})
	if loadError != nil {
		return loadError
	}
	options := resolveRunOptions(command, flags, loadedConfiguration, dependencies.WorkingDirectory, rootPath)
	logger.Debug(debugConfigurationMessage,
		zap.String("root", options.rootPath),
		zap.String("output", utils.RelativePathOrSelf(options.outputPath, dependencies.WorkingDirectory)),
		zap.Bool("tree", options.includeTree),
		zap.Bool("clipboard", options.copyToClipboard),
	)

	ignoreSet, patternError := buildIgnoreSet(dependencies, options, logger)
	if patternError != nil {
		return patternError
	}

	walkResult, walkError := traversal.Walk(dependencies.FileSystem, options.rootPath, ignoreSet, traversal.Options{
		MaxFileSizeBytes: options.maxFileSizeBytes,
		SkipEmpty:        options.skipEmpty,
		Logger:           logger,
	})
	if walkError != nil {
		return walkError
	}
	logger.Debug(debugWalkMessage,
		zap.Int("entries", len(walkResult.Entries)),
		zap.Int("included_files", len(walkResult.IncludedFiles())),
		zap.Int("warnings", len(walkResult.Warnings)),
	)

	document := aggregate.Aggregate(dependencies.FileSystem, walkResult, aggregate.Options{
		IncludeTree: options.includeTree,
		Tree:        tree.Options{HideExcluded: !options.showExcluded},
		Logger:      logger,
	})
	logger.Debug(debugDocumentMessage,
		zap.Int("sections", len(document.Files)),
		zap.String("size", utils.FormatFileSize(int64(len(document.Text)))),
	)

	sinks := []sink.Sink{sink.NewFileSink(options.outputPath)}
	if options.copyToClipboard {
		sinks = append(sinks, sink.NewClipboardSink(dependencies.Copier))
	}
	deliveryResults := sink.DeliverAll(document.Text, sinks, logger)

	report := runReport{
		rootKind:        walkResult.RootKind,
		outputPath:      options.outputPath,
		deliveries:      deliveryResults,
		characterCount:  utf8.RuneCountInString(document.Text),
		failedReadCount: len(document.Failures),
	}
	if options.countTokens {
		report.tokensCounted, report.tokenCount, report.tokenModel = estimateTokens(dependencies, options.tokenModel, document, logger)
	}

	newSummaryPrinter(dependencies.Stdout, dependencies.ColoredOutput).print(report)
	return nil
}

func buildIgnoreSet(dependencies Dependencies, options runOptions, logger *zap.Logger) (*ignore.Set, error) {
	rootInfo, statError := dependencies.FileSystem.Stat(options.rootPath)
	if statError != nil || !rootInfo.IsDir() {
		// Single-file roots ignore every rule; a missing root is reported by the walk.
		return ignore.Build(nil), nil
	}

	patterns, loadError := config.LoadCombinedIgnorePatterns(dependencies.FileSystem, config.PatternSources{
		RootDirectory:     options.rootPath,
		UseGitignore:      options.useGitignore,
		IgnoreFilePath:    options.ignoreFilePath,
		ExclusionPatterns: options.exclusionPatterns,
		SelfExcludedPaths: []string{options.outputPath, options.outputPath + sink.LockSuffix},
	})
	if loadError != nil {
		return nil, loadError
	}

	ignoreSet := ignore.Build(patterns)
	for _, warning := range ignoreSet.Warnings() {
		logger.Warn(warning.Error())
	}
	logger.Debug(debugPatternsMessage, zap.Strings("patterns", patterns))
	return ignoreSet, nil
}

func estimateTokens(dependencies Dependencies, model string, document types.OutputDocument, logger *zap.Logger) (bool, int, string) {
	counter, resolvedModel, counterError := dependencies.NewCounter(model)
	if counterError != nil {
		logger.Warn(warningTokenCountMessage, zap.String("model", model), zap.Error(counterError))
		return false, 0, ""
	}
	tokenCount, countError := tokenizer.CountDocument(counter, document.Text)
	if countError != nil {
		logger.Warn(warningTokenCountMessage, zap.String("model", resolvedModel), zap.Error(countError))
		return false, 0, ""
	}
	return true, tokenCount, resolvedModel
}
