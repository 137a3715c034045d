package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	toggleFlagTypeName       = "bool"
	toggleLongFlagPrefix     = "--"
	toggleArgumentTerminator = "--"
	toggleValueSeparator     = "="
	invalidToggleValueFormat = "invalid value %q for --%s; use one of: yes, no, true, false, on, off, 1, 0"
)

// toggleFlag describes an off-by-default switch such as --copy or --gitignore.
type toggleFlag struct {
	target *bool
	name   string
	usage  string
}

// toggleValue accepts "--copy", "--copy=no" and, after normalization, "--copy off".
type toggleValue struct {
	target *bool
	name   string
}

func (value *toggleValue) Set(input string) error {
	enabled, recognized := parseToggleLiteral(input)
	if !recognized {
		return fmt.Errorf(invalidToggleValueFormat, input, value.name)
	}
	*value.target = enabled
	return nil
}

func (value *toggleValue) String() string {
	return strconv.FormatBool(*value.target)
}

// Type reports "bool" so cobra help renders these like ordinary switches.
func (value *toggleValue) Type() string {
	return toggleFlagTypeName
}

// parseToggleLiteral maps a user-supplied literal to a switch state.
// A bare flag arrives as "true".
func parseToggleLiteral(input string) (enabled bool, recognized bool) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "", "true", "t", "1", "yes", "y", "on":
		return true, true
	case "false", "f", "0", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}

// registerToggleFlags adds every toggle to flagSet, all starting off.
func registerToggleFlags(flagSet *pflag.FlagSet, toggles ...toggleFlag) {
	for _, toggle := range toggles {
		*toggle.target = false
		flagSet.Var(&toggleValue{target: toggle.target, name: toggle.name}, toggle.name, toggle.usage)
		registered := flagSet.Lookup(toggle.name)
		registered.DefValue = strconv.FormatBool(false)
		registered.NoOptDefVal = strconv.FormatBool(true)
	}
}

// normalizeToggleArguments rewrites "--copy off" into "--copy=off" for every
// toggle registered anywhere under rootCommand, so the literal is not taken
// as a positional path. Arguments after "--" are left alone.
func normalizeToggleArguments(rootCommand *cobra.Command, arguments []string) []string {
	toggleNames := map[string]struct{}{}
	collectToggleNames(rootCommand, toggleNames)

	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		argument := arguments[index]
		if argument == toggleArgumentTerminator {
			return append(normalized, arguments[index:]...)
		}
		flagName, isLongFlag := strings.CutPrefix(argument, toggleLongFlagPrefix)
		_, isToggle := toggleNames[flagName]
		hasNext := index+1 < len(arguments)
		if isLongFlag && isToggle && hasNext {
			if _, recognized := parseToggleLiteral(arguments[index+1]); recognized && arguments[index+1] != "" {
				normalized = append(normalized, argument+toggleValueSeparator+arguments[index+1])
				index++
				continue
			}
		}
		normalized = append(normalized, argument)
	}
	return normalized
}

func collectToggleNames(command *cobra.Command, toggleNames map[string]struct{}) {
	command.Flags().VisitAll(func(flag *pflag.Flag) {
		if _, isToggle := flag.Value.(*toggleValue); isToggle {
			toggleNames[flag.Name] = struct{}{}
		}
	})
	for _, child := range command.Commands() {
		collectToggleNames(child, toggleNames)
	}
}
