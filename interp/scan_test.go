package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCommentsPreservesLiterals(t *testing.T) {
	src := `printf("// not a comment"); // strip me
/* block
comment */ int x = 1;`
	out := stripComments(src)
	assert.Contains(t, out, `"// not a comment"`)
	assert.NotContains(t, out, "strip me")
	assert.NotContains(t, out, "block")
	assert.Contains(t, out, "int x = 1;")
}

func TestFindMatchingHonorsStringLiterals(t *testing.T) {
	runes := []rune(`("(not a paren)")`)
	close := findMatching(runes, 0, '(', ')')
	assert.Equal(t, len(runes)-1, close)
}

func TestSplitTopLevelRespectsNesting(t *testing.T) {
	parts := splitTopLevel(`"a,b", foo(1,2), c`, ',')
	assert.Equal(t, []string{`"a,b"`, ` foo(1,2)`, ` c`}, parts)
}

func TestContainsTokenIsWholeWordOnly(t *testing.T) {
	assert.True(t, containsToken("printf(\"x\")", "printf"))
	assert.False(t, containsToken("my_printf(\"x\")", "printf"))
}

func TestHasKeywordPrefixRejectsLongerIdentifier(t *testing.T) {
	assert.True(t, hasKeywordPrefix("int x", "int"))
	assert.False(t, hasKeywordPrefix("internal", "int"))
}

func TestIndexTokenFindsWholeWordMain(t *testing.T) {
	idx := indexToken(`printf("main"); int main(){}`, "main")
	// the occurrence inside the string literal must not match
	assert.Equal(t, len(`printf("main"); int `), idx)
}
