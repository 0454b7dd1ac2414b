// Package cli provides the command line interface.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/filestoprompt/internal/config"
	"github.com/temirov/filestoprompt/internal/filter"
	"github.com/temirov/filestoprompt/internal/output"
	"github.com/temirov/filestoprompt/internal/render"
	"github.com/temirov/filestoprompt/internal/services/clipboard"
	"github.com/temirov/filestoprompt/internal/tokenizer"
	"github.com/temirov/filestoprompt/internal/types"
	"github.com/temirov/filestoprompt/internal/utils"
)

const (
	rootUse              = "filestoprompt <folder>"
	rootShortDescription = "render a project folder as a single LLM prompt"
	rootLongDescription  = `filestoprompt walks a project folder and renders one prompt document:
an indented structure listing followed by the content of every retained file.
Dependency and cache directories are pruned, only allowed extensions are read and
every file is capped at --max-size bytes.`
	rootUsageExample = `  # Print the prompt for the current project
  filestoprompt .

  # Save a prompt that only contains Go and Markdown files
  filestoprompt --protect-ext .go,.md -o prompt.txt ./service

  # Copy a JSON rendering to the clipboard and log its token count
  filestoprompt --format json --copy --tokens .`
	versionTemplate = "filestoprompt version: {{.Version}}\n"

	outputFlagName        = "output"
	outputFlagShorthand   = "o"
	maxSizeFlagName       = "max-size"
	excludeFlagName       = "exclude"
	excludeExtFlagName    = "exclude-ext"
	protectExtFlagName    = "protect-ext"
	formatFlagName        = "format"
	copyFlagName          = "copy"
	tokensFlagName        = "tokens"
	modelFlagName         = "model"
	configFlagName        = "config"
	outputFlagUsage       = "write the prompt to this file instead of stdout"
	maxSizeFlagUsage      = "maximum number of bytes read from each file"
	excludeFlagUsage      = "comma-separated directory names to exclude in addition to the defaults"
	excludeExtFlagUsage   = "comma-separated extensions to remove from the allowed set"
	protectExtFlagUsage   = "comma-separated extensions that replace the default allowed set"
	formatFlagUsage       = "output format: raw, json or xml"
	copyFlagUsage         = "copy the rendered prompt to the clipboard"
	tokensFlagUsage       = "log the token count of the rendered prompt"
	modelFlagUsage        = "tokenizer model used by --tokens"
	configFlagUsage       = "configuration file replacing ./" + utils.LocalConfigFileName
	savedMessageFormat    = "🎉 Prompt 已成功保存到 %s！\n"
	renderedLogMessage    = "prompt rendered"
	tokenCountLogMessage  = "prompt token count"
	copyFailedLogMessage  = "clipboard copy failed"
	tokenFailedLogMessage = "token counting failed"
	filesFieldKey         = "files"
	sizeFieldKey          = "size"
	modelFieldKey         = "model"
	tokensFieldKey        = "tokens"
	encodingFieldKey      = "encoding"
	filterLogMessage      = "effective filter"
	excludedFieldKey      = "excluded_directories"
	allowedFieldKey       = "allowed_extensions"
	maxSizeFieldKey       = "max_file_size"

	negativeMaxSizeFormat     = "--%s must not be negative, got %d"
	unsupportedFormatFormat   = "unsupported format '%s' in configuration"
	errorAbsolutePathFormat   = "abs failed for '%s': %w"
	errorPathMissingFormat    = "folder '%s' does not exist"
	errorStatFormat           = "stat failed for '%s': %w"
	errorNotDirectoryFormat   = "'%s' is not a directory"
	writeOutputErrorFormat    = "write prompt to %s: %w"
	loadConfigurationErrorFmt = "load configuration: %w"
)

// Dependencies are the collaborators of the root command. Zero values select
// the production implementations.
type Dependencies struct {
	Logger           *zap.Logger
	Copier           clipboard.Copier
	NewCounter       func(tokenizer.Config) (tokenizer.Counter, string, error)
	WorkingDirectory string
	GlobalConfigPath string
}

func (dependencies Dependencies) withDefaults() Dependencies {
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	if dependencies.Copier == nil {
		dependencies.Copier = clipboard.NewService()
	}
	if dependencies.NewCounter == nil {
		dependencies.NewCounter = tokenizer.NewCounter
	}
	return dependencies
}

// commandOptions holds the flag values after configuration defaults are applied.
type commandOptions struct {
	outputPath          string
	maxSize             int64
	excludeDirectories  string
	excludeExtensions   string
	protectExtensions   string
	format              string
	copyToClipboard     bool
	countTokens         bool
	tokenizerModel      string
	configPath          string
	excludedDirectories []string
	excludedExtensions  []string
	protectedExtensions []string
}

// Execute runs the filestoprompt application with the process arguments.
func Execute(logger *zap.Logger) error {
	rootCommand := NewRootCommand(Dependencies{Logger: logger})
	rootCommand.SetArgs(normalizeToggleArguments(rootCommand.Flags(), os.Args[1:]))
	return rootCommand.Execute()
}

// NewRootCommand builds the single filestoprompt command.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	dependencies = dependencies.withDefaults()
	var options commandOptions

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Version:      utils.GetApplicationVersion(),
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if err := applyConfiguration(command, &options, dependencies); err != nil {
				return err
			}
			folder, err := resolveFolder(arguments[0])
			if err != nil {
				return err
			}
			return runPrompt(command, folder, options, dependencies)
		},
	}
	rootCommand.SetVersionTemplate(versionTemplate)

	flagSet := rootCommand.Flags()
	flagSet.StringVarP(&options.outputPath, outputFlagName, outputFlagShorthand, "", outputFlagUsage)
	flagSet.Int64Var(&options.maxSize, maxSizeFlagName, filter.DefaultMaxFileSize, maxSizeFlagUsage)
	flagSet.StringVar(&options.excludeDirectories, excludeFlagName, "", excludeFlagUsage)
	flagSet.StringVar(&options.excludeExtensions, excludeExtFlagName, "", excludeExtFlagUsage)
	flagSet.StringVar(&options.protectExtensions, protectExtFlagName, "", protectExtFlagUsage)
	registerFormatFlag(flagSet, &options.format, formatFlagName, formatFlagUsage)
	registerToggleFlag(flagSet, &options.copyToClipboard, copyFlagName, copyFlagUsage)
	registerToggleFlag(flagSet, &options.countTokens, tokensFlagName, tokensFlagUsage)
	flagSet.StringVar(&options.tokenizerModel, modelFlagName, tokenizer.DefaultModel, modelFlagUsage)
	flagSet.StringVar(&options.configPath, configFlagName, "", configFlagUsage)
	return rootCommand
}

// applyConfiguration fills every flag the user did not set from the
// configuration files and validates the result.
func applyConfiguration(command *cobra.Command, options *commandOptions, dependencies Dependencies) error {
	loaded, err := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: dependencies.WorkingDirectory,
		ExplicitFilePath: options.configPath,
		GlobalFilePath:   dependencies.GlobalConfigPath,
	})
	if err != nil {
		return fmt.Errorf(loadConfigurationErrorFmt, err)
	}

	flagSet := command.Flags()
	if !flagSet.Changed(maxSizeFlagName) && loaded.MaxSize != nil {
		options.maxSize = *loaded.MaxSize
	}
	if !flagSet.Changed(formatFlagName) && loaded.Format != "" {
		var configuredFormat string
		formatValue := &formatFlagValue{target: &configuredFormat}
		if setErr := formatValue.Set(loaded.Format); setErr != nil {
			return fmt.Errorf(unsupportedFormatFormat, loaded.Format)
		}
		options.format = configuredFormat
	}
	if !flagSet.Changed(copyFlagName) && loaded.Copy != nil {
		options.copyToClipboard = *loaded.Copy
	}
	if !flagSet.Changed(tokensFlagName) && loaded.Tokens.Enabled != nil {
		options.countTokens = *loaded.Tokens.Enabled
	}
	if !flagSet.Changed(modelFlagName) && loaded.Tokens.Model != "" {
		options.tokenizerModel = loaded.Tokens.Model
	}

	options.excludedDirectories = listOption(flagSet.Changed(excludeFlagName), options.excludeDirectories, loaded.Exclude)
	options.excludedExtensions = listOption(flagSet.Changed(excludeExtFlagName), options.excludeExtensions, loaded.ExcludeExtensions)
	options.protectedExtensions = listOption(flagSet.Changed(protectExtFlagName), options.protectExtensions, loaded.ProtectExtensions)

	if options.maxSize < 0 {
		return fmt.Errorf(negativeMaxSizeFormat, maxSizeFlagName, options.maxSize)
	}
	return nil
}

func listOption(changed bool, flagValue string, configured []string) []string {
	if changed {
		return utils.DeduplicateValues(filter.SplitList(flagValue))
	}
	return configured
}

// resolveFolder converts the positional argument into an absolute directory path.
func resolveFolder(folder string) (types.ValidatedPath, error) {
	absolutePath, absErr := filepath.Abs(folder)
	if absErr != nil {
		return types.ValidatedPath{}, fmt.Errorf(errorAbsolutePathFormat, folder, absErr)
	}
	info, statErr := os.Stat(absolutePath)
	if statErr != nil {
		if errors.Is(statErr, os.ErrNotExist) {
			return types.ValidatedPath{}, fmt.Errorf(errorPathMissingFormat, folder)
		}
		return types.ValidatedPath{}, fmt.Errorf(errorStatFormat, folder, statErr)
	}
	if !info.IsDir() {
		return types.ValidatedPath{}, fmt.Errorf(errorNotDirectoryFormat, folder)
	}
	return types.ValidatedPath{AbsolutePath: absolutePath}, nil
}

func runPrompt(command *cobra.Command, folder types.ValidatedPath, options commandOptions, dependencies Dependencies) error {
	logger := dependencies.Logger
	filterConfiguration := filter.NewConfiguration(filter.Options{
		ExcludedDirectories: options.excludedDirectories,
		ExcludedExtensions:  options.excludedExtensions,
		ProtectedExtensions: options.protectedExtensions,
		MaxFileSize:         options.maxSize,
	})
	logger.Debug(filterLogMessage,
		zap.Strings(excludedFieldKey, filterConfiguration.ExcludedDirectories()),
		zap.Strings(allowedFieldKey, filterConfiguration.AllowedExtensions()),
		zap.Int64(maxSizeFieldKey, filterConfiguration.MaxFileSize()),
	)

	document, buildErr := render.BuildDocument(command.Context(), render.Options{
		Root:          folder.AbsolutePath,
		Configuration: filterConfiguration,
		Logger:        logger,
	})
	if buildErr != nil {
		return buildErr
	}
	rendered, renderErr := output.Render(document, options.format)
	if renderErr != nil {
		return renderErr
	}

	if options.outputPath != "" {
		if writeErr := os.WriteFile(options.outputPath, []byte(rendered), 0o644); writeErr != nil {
			return fmt.Errorf(writeOutputErrorFormat, options.outputPath, writeErr)
		}
		fmt.Fprintf(command.OutOrStdout(), savedMessageFormat, options.outputPath)
	} else {
		fmt.Fprintln(command.OutOrStdout(), rendered)
	}

	logger.Info(renderedLogMessage,
		zap.Int(filesFieldKey, len(document.Files)),
		zap.String(sizeFieldKey, utils.FormatFileSize(document.TotalBytes())),
	)

	if options.copyToClipboard {
		if copyErr := dependencies.Copier.Copy(rendered); copyErr != nil {
			logger.Warn(copyFailedLogMessage, zap.Error(copyErr))
		}
	}
	if options.countTokens {
		reportTokenCount(logger, dependencies, options.tokenizerModel, rendered)
	}
	return nil
}

func reportTokenCount(logger *zap.Logger, dependencies Dependencies, model string, rendered string) {
	counter, resolvedModel, counterErr := dependencies.NewCounter(tokenizer.Config{Model: model})
	if counterErr != nil {
		logger.Warn(tokenFailedLogMessage, zap.String(modelFieldKey, model), zap.Error(counterErr))
		return
	}
	tokenCount, countErr := tokenizer.CountString(counter, rendered)
	if countErr != nil {
		logger.Warn(tokenFailedLogMessage, zap.String(modelFieldKey, resolvedModel), zap.Error(countErr))
		return
	}
	logger.Info(tokenCountLogMessage,
		zap.String(modelFieldKey, resolvedModel),
		zap.String(encodingFieldKey, counter.Name()),
		zap.Int(tokensFieldKey, tokenCount),
	)
}
