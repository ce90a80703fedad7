package cli

import (
	"reflect"
	"testing"

	"github.com/spf13/cobra"
)

func TestRegisterBooleanFlagParsesValues(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		defaultValue  bool
		arguments     []string
		expected      bool
		expectedArgs  []string
		expectedError bool
	}{
		{name: "defaults_to_false", defaultValue: false, arguments: []string{}, expected: false},
		{name: "defaults_to_true", defaultValue: true, arguments: []string{}, expected: true},
		{name: "sets_true_without_value", defaultValue: false, arguments: []string{"--redact"}, expected: true},
		{name: "sets_false_with_equals", defaultValue: true, arguments: []string{"--redact=false"}, expected: false},
		{name: "sets_false_with_no_literal", defaultValue: true, arguments: []string{"--redact", "no"}, expected: false},
		{name: "sets_true_with_on_literal", defaultValue: false, arguments: []string{"--redact", "on"}, expected: true},
		{
			name:         "keeps_positional_argument",
			defaultValue: false,
			arguments:    []string{"--redact", "project", "-"},
			expected:     true,
			expectedArgs: []string{"project", "-"},
		},
		{
			name:         "stops_at_terminator",
			defaultValue: true,
			arguments:    []string{"--", "--redact", "off"},
			expected:     true,
			expectedArgs: []string{"--redact", "off"},
		},
		{name: "rejects_unknown_literal", defaultValue: false, arguments: []string{"--redact=maybe"}, expectedError: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			command := &cobra.Command{Use: "boolean-test"}
			flagValue := !testCase.defaultValue
			registerBooleanFlag(command.Flags(), &flagValue, "redact", testCase.defaultValue, "redact secrets")
			parseError := command.ParseFlags(normalizeBooleanFlagArguments(command, testCase.arguments))
			if testCase.expectedError {
				if parseError == nil {
					t.Fatalf("expected parse error for arguments %v", testCase.arguments)
				}
				return
			}
			if parseError != nil {
				t.Fatalf("unexpected parse error: %v", parseError)
			}
			if flagValue != testCase.expected {
				t.Fatalf("expected %t, got %t", testCase.expected, flagValue)
			}
			remaining := command.Flags().Args()
			if len(testCase.expectedArgs) > 0 && !reflect.DeepEqual(remaining, testCase.expectedArgs) {
				t.Fatalf("expected positional arguments %v, got %v", testCase.expectedArgs, remaining)
			}
		})
	}
}
