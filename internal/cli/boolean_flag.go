package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	booleanFlagTypeName       = "bool"
	booleanFlagImpliedValue   = "true"
	booleanFlagAcceptedValues = "true, false, yes, no, on, off, 1, 0"
	longFlagPrefix            = "--"
	flagTerminator            = "--"
)

var booleanFlagLiterals = map[string]bool{
	"true": true, "t": true, "1": true, "yes": true, "y": true, "on": true,
	"false": false, "f": false, "0": false, "no": false, "n": false, "off": false,
}

func parseBooleanLiteral(input string) (bool, bool) {
	value, known := booleanFlagLiterals[strings.ToLower(strings.TrimSpace(input))]
	return value, known
}

// booleanFlagValue accepts the common spellings of true and false, so that
// both --redact=no and --redact off disable redaction.
type booleanFlagValue struct {
	target *bool
	name   string
}

func (value *booleanFlagValue) Set(input string) error {
	if strings.TrimSpace(input) == "" {
		input = booleanFlagImpliedValue
	}
	parsed, known := parseBooleanLiteral(input)
	if !known {
		return fmt.Errorf("invalid boolean value %q for --%s; accepted values: %s", input, value.name, booleanFlagAcceptedValues)
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

// registerBooleanFlag defines a boolean flag that may be given bare or with a literal value.
func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	*target = defaultValue
	flagSet.Var(&booleanFlagValue{target: target, name: name}, name, usage)
	flag := flagSet.Lookup(name)
	flag.DefValue = strconv.FormatBool(defaultValue)
	flag.NoOptDefVal = booleanFlagImpliedValue
}

// normalizeBooleanFlagArguments joins "--flag literal" pairs into "--flag=literal" for
// boolean flags, because pflag never consumes a separate value for a flag with NoOptDefVal.
// Arguments after "--" are left untouched.
func normalizeBooleanFlagArguments(command *cobra.Command, arguments []string) []string {
	booleanFlags := make(map[string]struct{})
	collectBooleanFlagNames(command, booleanFlags)
	if len(booleanFlags) == 0 {
		return arguments
	}

	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		argument := arguments[index]
		if argument == flagTerminator {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		flagName, isLongFlag := strings.CutPrefix(argument, longFlagPrefix)
		_, isBoolean := booleanFlags[flagName]
		if isLongFlag && isBoolean && !strings.Contains(flagName, "=") && index+1 < len(arguments) {
			if _, known := parseBooleanLiteral(arguments[index+1]); known {
				normalized = append(normalized, argument+"="+arguments[index+1])
				index++
				continue
			}
		}
		normalized = append(normalized, argument)
	}
	return normalized
}

func collectBooleanFlagNames(command *cobra.Command, target map[string]struct{}) {
	collect := func(flagSet *pflag.FlagSet) {
		flagSet.VisitAll(func(flag *pflag.Flag) {
			if flag.Value.Type() == booleanFlagTypeName {
				target[flag.Name] = struct{}{}
			}
		})
	}
	collect(command.PersistentFlags())
	collect(command.Flags())
	for _, child := range command.Commands() {
		collectBooleanFlagNames(child, target)
	}
}
