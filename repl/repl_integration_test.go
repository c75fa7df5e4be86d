// ==============================================================================================
// FILE: repl/repl_integration_test.go
// ==============================================================================================
// PURPOSE: Drives full REPL sessions through in-memory streams.
// ==============================================================================================

package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runSession(t *testing.T, input string) (stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	r := New(strings.NewReader(input), &out, &errOut, DefaultOptions())
	r.Start()
	return out.String(), errOut.String()
}

func TestSession_EchoesExpressionResults(t *testing.T) {
	stdout, stderr := runSession(t, "let x = 10;\nx + 5;\nexit()\n")
	assert.Contains(t, stdout, "15\n")
	assert.Contains(t, stdout, "Exiting Dust REPL...")
	assert.Empty(t, stderr)
}

func TestSession_StatePersistsAcrossSubmissions(t *testing.T) {
	stdout, stderr := runSession(t, "fn double(n) { return n * 2; }\ndouble(21);\nexit()\n")
	assert.Contains(t, stdout, "42\n")
	assert.Empty(t, stderr)
}

func TestSession_MultiLineSubmission(t *testing.T) {
	input := "let xs = [1,\n2,\n3];\nprint(len(xs));\nexit()\n"
	stdout, stderr := runSession(t, input)
	assert.Contains(t, stdout, "3\n")
	// The continuation prompt appears while brackets are open.
	assert.Contains(t, stdout, "... ")
	assert.Empty(t, stderr)
}

func TestSession_EvaluatesAllItemsPerSubmission(t *testing.T) {
	stdout, _ := runSession(t, "let a = 1; let b = 2; a + b;\nexit()\n")
	assert.Contains(t, stdout, "3\n")
}

func TestSession_ErrorDiscardsBufferAndContinues(t *testing.T) {
	stdout, stderr := runSession(t, "ghost;\n1 + 1;\nexit()\n")
	require.Contains(t, stderr, "Undefined")
	assert.Contains(t, stdout, "2\n")
}

func TestSession_ParseErrorReported(t *testing.T) {
	_, stderr := runSession(t, "let = 5;\nexit()\n")
	assert.Contains(t, stderr, "SyntaxError")
}

func TestSession_EOFTerminates(t *testing.T) {
	stdout, _ := runSession(t, "1 + 1;\n")
	assert.Contains(t, stdout, "2\n")
}

func TestSession_DeclarationsStaySilent(t *testing.T) {
	stdout, _ := runSession(t, "let quiet = 1;\nexit()\n")
	assert.NotContains(t, stdout, "quiet")
	// The banner plus prompts only; no echoed value line beginning with a digit.
	for _, line := range strings.Split(stdout, "\n") {
		trimmed := strings.TrimPrefix(strings.TrimPrefix(line, ">>> "), "... ")
		assert.NotEqual(t, "1", trimmed)
	}
}
