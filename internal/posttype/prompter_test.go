package posttype_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pressctl/pressctl/internal/posttype"
)

func TestIOConfirmationPrompterConfirm(testInstance *testing.T) {
	testCases := []struct {
		name             string
		input            string
		expectedDecision bool
	}{
		{name: "lowercase_y_confirms", input: "y\n", expectedDecision: true},
		{name: "uppercase_yes_confirms", input: "YES\n", expectedDecision: true},
		{name: "padded_yes_confirms", input: "  yes  \n", expectedDecision: true},
		{name: "n_declines", input: "n\n", expectedDecision: false},
		{name: "empty_line_declines", input: "\n", expectedDecision: false},
		{name: "unrelated_text_declines", input: "maybe\n", expectedDecision: false},
		{name: "closed_input_declines", input: "", expectedDecision: false},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(serviceSubtestNameTemplate, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			outputBuffer := &bytes.Buffer{}
			prompter := posttype.NewIOConfirmationPrompter(strings.NewReader(testCase.input), outputBuffer)

			decision, promptError := prompter.Confirm("Proceed? [y/N] ")
			require.NoError(testInstance, promptError)
			require.Equal(testInstance, testCase.expectedDecision, decision)
			require.Equal(testInstance, "Proceed? [y/N] ", outputBuffer.String())
		})
	}
}
