package cli

import (
	"reflect"
	"testing"

	"github.com/spf13/cobra"
)

func TestRegisterBooleanFlagParsesLiterals(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		defaultValue bool
		arguments    []string
		expected     bool
		expectError  bool
	}{
		{name: "keeps_default", defaultValue: true, arguments: nil, expected: true},
		{name: "bare_flag_sets_true", defaultValue: false, arguments: []string{"--tree"}, expected: true},
		{name: "equals_false", defaultValue: true, arguments: []string{"--tree=false"}, expected: false},
		{name: "separate_no_literal", defaultValue: true, arguments: []string{"--tree", "no"}, expected: false},
		{name: "separate_on_literal", defaultValue: false, arguments: []string{"--tree", "on"}, expected: true},
		{name: "separate_zero_literal", defaultValue: true, arguments: []string{"--tree", "0"}, expected: false},
		{name: "path_after_bare_flag", defaultValue: false, arguments: []string{"--tree", "src"}, expected: true},
		{name: "invalid_literal", defaultValue: false, arguments: []string{"--tree=maybe"}, expectError: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			command := &cobra.Command{Use: "boolean-test"}
			var flagValue bool
			registerBooleanFlag(command.Flags(), &flagValue, "tree", testCase.defaultValue, "render the tree")
			parseError := command.ParseFlags(normalizeBooleanFlagArguments(command, testCase.arguments))
			if testCase.expectError {
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
		})
	}
}

func TestNormalizeBooleanFlagArgumentsStopsAtTerminator(t *testing.T) {
	t.Parallel()

	command := &cobra.Command{Use: "boolean-test"}
	var flagValue bool
	registerBooleanFlag(command.Flags(), &flagValue, "copy", true, "copy output")

	normalized := normalizeBooleanFlagArguments(command, []string{"--copy", "off", "--", "--copy", "on"})
	expected := []string{"--copy=off", "--", "--copy", "on"}
	if !reflect.DeepEqual(normalized, expected) {
		t.Fatalf("expected %v, got %v", expected, normalized)
	}
}
