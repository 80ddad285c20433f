package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	booleanFlagTypeName              = "bool"
	booleanFlagTrueLiteral           = "true"
	booleanFlagAcceptedValuesListing = "true, false, yes, no, on, off, 1, 0"
	flagArgumentTerminator           = "--"
	longFlagPrefix                   = "--"

	errorInvalidBooleanFormat = "invalid boolean value %q for --%s; accepted values: %s"
	normalizedFlagFormat      = "--%s=%s"
)

var booleanFlagLiterals = map[string]bool{
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

func parseBooleanLiteral(input string) (bool, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return true, true
	}
	parsed, known := booleanFlagLiterals[normalized]
	return parsed, known
}

// booleanFlagValue is a pflag.Value accepting the extended boolean literals.
type booleanFlagValue struct {
	target   *bool
	flagName string
}

func (value *booleanFlagValue) Set(input string) error {
	parsed, known := parseBooleanLiteral(input)
	if !known {
		return fmt.Errorf(errorInvalidBooleanFormat, input, value.flagName, booleanFlagAcceptedValuesListing)
	}
	*value.target = parsed
	return nil
}

func (value *booleanFlagValue) String() string {
	if value == nil || value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value *booleanFlagValue) Type() string {
	return booleanFlagTypeName
}

// registerBooleanFlag adds a flag that may appear bare, as --name=value or as
// --name value once the arguments pass through normalizeBooleanFlagArguments.
func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	*target = defaultValue
	flagSet.Var(&booleanFlagValue{target: target, flagName: name}, name, usage)
	registeredFlag := flagSet.Lookup(name)
	registeredFlag.DefValue = strconv.FormatBool(defaultValue)
	registeredFlag.NoOptDefVal = booleanFlagTrueLiteral
}

// normalizeBooleanFlagArguments joins "--name value" into "--name=value" for
// boolean flags when value is a boolean literal. Other values stay positional.
func normalizeBooleanFlagArguments(command *cobra.Command, arguments []string) []string {
	booleanFlagNames := make(map[string]struct{})
	collectBooleanFlagNames(command, booleanFlagNames)
	if len(booleanFlagNames) == 0 {
		return arguments
	}

	normalized := make([]string, 0, len(arguments))
	for argumentIndex := 0; argumentIndex < len(arguments); argumentIndex++ {
		currentArgument := arguments[argumentIndex]
		if currentArgument == flagArgumentTerminator {
			normalized = append(normalized, arguments[argumentIndex:]...)
			break
		}
		flagName, isBareLongFlag := bareLongFlagName(currentArgument)
		if _, isBoolean := booleanFlagNames[flagName]; isBareLongFlag && isBoolean && argumentIndex+1 < len(arguments) {
			nextArgument := arguments[argumentIndex+1]
			if _, known := booleanFlagLiterals[strings.ToLower(strings.TrimSpace(nextArgument))]; known {
				normalized = append(normalized, fmt.Sprintf(normalizedFlagFormat, flagName, nextArgument))
				argumentIndex++
				continue
			}
		}
		normalized = append(normalized, currentArgument)
	}
	return normalized
}

func bareLongFlagName(argument string) (string, bool) {
	if !strings.HasPrefix(argument, longFlagPrefix) || strings.Contains(argument, "=") || argument == flagArgumentTerminator {
		return "", false
	}
	return strings.TrimPrefix(argument, longFlagPrefix), true
}

func collectBooleanFlagNames(command *cobra.Command, target map[string]struct{}) {
	if command == nil {
		return
	}
	visit := func(flagSet *pflag.FlagSet) {
		flagSet.VisitAll(func(flag *pflag.Flag) {
			if flag.Value.Type() == booleanFlagTypeName {
				target[flag.Name] = struct{}{}
			}
		})
	}
	visit(command.PersistentFlags())
	visit(command.Flags())
	for _, child := range command.Commands() {
		collectBooleanFlagNames(child, target)
	}
}
