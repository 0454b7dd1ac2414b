package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/temirov/filestoprompt/internal/types"
)

const (
	toggleFlagTypeName           = "bool"
	toggleFlagTrueLiteral        = "true"
	toggleFlagAcceptedValues     = "true, false, yes, no, on, off, 1, 0"
	invalidToggleValueFormat     = "invalid boolean value %q for --%s; accepted values: %s"
	formatFlagTypeName           = "format"
	invalidFormatValueFormat     = "invalid format value '%s'; accepted values: %s"
	argumentTerminator           = "--"
	longFlagPrefix               = "--"
	flagAssignmentSeparator      = "="
	normalizedToggleArgumentForm = "--%s=%s"
)

var toggleLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// toggleFlagValue is a boolean flag that also accepts yes/no style literals.
type toggleFlagValue struct {
	target   *bool
	flagName string
}

func (value *toggleFlagValue) Set(input string) error {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		normalized = toggleFlagTrueLiteral
	}
	parsed, known := toggleLiterals[normalized]
	if !known {
		return fmt.Errorf(invalidToggleValueFormat, input, value.flagName, toggleFlagAcceptedValues)
	}
	*value.target = parsed
	return nil
}

func (value *toggleFlagValue) String() string {
	if value == nil || value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value *toggleFlagValue) Type() string {
	return toggleFlagTypeName
}

func registerToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, usage string) {
	*target = false
	flagSet.Var(&toggleFlagValue{target: target, flagName: name}, name, usage)
	if lookup := flagSet.Lookup(name); lookup != nil {
		lookup.DefValue = strconv.FormatBool(false)
		lookup.NoOptDefVal = toggleFlagTrueLiteral
	}
}

// normalizeToggleArguments joins "--copy no" into "--copy=no" so a literal
// following a toggle flag is not mistaken for the folder argument.
func normalizeToggleArguments(flagSet *pflag.FlagSet, arguments []string) []string {
	toggleNames := map[string]struct{}{}
	flagSet.VisitAll(func(flag *pflag.Flag) {
		if flag.Value.Type() == toggleFlagTypeName {
			toggleNames[flag.Name] = struct{}{}
		}
	})

	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		currentArgument := arguments[index]
		if currentArgument == argumentTerminator {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		if strings.HasPrefix(currentArgument, longFlagPrefix) && !strings.Contains(currentArgument, flagAssignmentSeparator) && index+1 < len(arguments) {
			flagName := strings.TrimPrefix(currentArgument, longFlagPrefix)
			nextArgument := arguments[index+1]
			if _, isToggle := toggleNames[flagName]; isToggle {
				if _, isLiteral := toggleLiterals[strings.ToLower(strings.TrimSpace(nextArgument))]; isLiteral {
					normalized = append(normalized, fmt.Sprintf(normalizedToggleArgumentForm, flagName, nextArgument))
					index++
					continue
				}
			}
		}
		normalized = append(normalized, currentArgument)
	}
	return normalized
}

// formatFlagValue accepts only the supported output formats.
type formatFlagValue struct {
	target *string
}

func (value *formatFlagValue) Set(input string) error {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if !types.IsSupportedFormat(normalized) {
		return fmt.Errorf(invalidFormatValueFormat, input, strings.Join(types.SupportedFormats(), ", "))
	}
	*value.target = normalized
	return nil
}

func (value *formatFlagValue) String() string {
	if value == nil || value.target == nil {
		return types.FormatRaw
	}
	return *value.target
}

func (value *formatFlagValue) Type() string {
	return formatFlagTypeName
}

func registerFormatFlag(flagSet *pflag.FlagSet, target *string, name string, usage string) {
	*target = types.FormatRaw
	flagSet.Var(&formatFlagValue{target: target}, name, usage)
}
