package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNoActionsSection(t *testing.T) {
	raw := "I will click the button now.\nleft_click(500,500)"
	assert.Empty(t, Parse(raw))
}

func TestParseNarrativeIgnored(t *testing.T) {
	raw := "NARRATIVE:\nleft_click(100,100)\nsome story text\n\nACTIONS:\nleft_click(500,500)\n"
	records := Parse(raw)
	require.Len(t, records, 1)
	assert.Equal(t, LeftClick, records[0].Kind)
	assert.Equal(t, 500, records[0].X)
	assert.Equal(t, 500, records[0].Y)
	assert.True(t, records[0].Valid)
}

func TestParseSectionLabelVariants(t *testing.T) {
	for _, label := range []string{"ACTIONS", "actions", "Actions:", "ACTIONS:"} {
		records := Parse(label + "\nscreenshot()")
		require.Len(t, records, 1, "label %q", label)
		assert.Equal(t, Screenshot, records[0].Kind)
	}
}

func TestParseUnknownIdentifierDropped(t *testing.T) {
	records := Parse("ACTIONS:\nbogus_fn(1)\nleft_click(10,20)")
	require.Len(t, records, 1)
	assert.Equal(t, LeftClick, records[0].Kind)
}

func TestParseLineWithoutCallDropped(t *testing.T) {
	records := Parse("ACTIONS:\njust some prose\nscreenshot()")
	require.Len(t, records, 1)
	assert.Equal(t, Screenshot, records[0].Kind)
}

func TestParseMalformedArgsNotedAsInvalid(t *testing.T) {
	cases := []string{
		"left_click(1+1, 2)",
		"left_click(1)",
		"left_click(1, 2, 3)",
		"left_click(a, b)",
		"left_click(1, 2",
		"drag(1,2,3)",
		`type(unquoted)`,
		`type("a", "b")`,
		"screenshot(1)",
		"left_click(1,2) trailing",
	}
	for _, line := range cases {
		records := Parse("ACTIONS:\n" + line)
		require.Len(t, records, 1, "line %q", line)
		assert.False(t, records[0].Valid, "line %q", line)
		assert.Equal(t, line, records[0].Line)
	}
}

func TestParseDrag(t *testing.T) {
	records := Parse("ACTIONS:\ndrag(100, 100, 500, 500)")
	require.Len(t, records, 1)
	rec := records[0]
	assert.True(t, rec.Valid)
	assert.Equal(t, Drag, rec.Kind)
	assert.Equal(t, [4]int{100, 100, 500, 500}, [4]int{rec.X, rec.Y, rec.X2, rec.Y2})
}

func TestParseTypeText(t *testing.T) {
	records := Parse("ACTIONS:\ntype(\"hello, world\\n\")")
	require.Len(t, records, 1)
	assert.True(t, records[0].Valid)
	assert.Equal(t, "hello, world\n", records[0].Text)
}

func TestParsePreservesOrder(t *testing.T) {
	raw := "ACTIONS:\nleft_click(1,2)\ntype(\"x\")\nscreenshot()\ndrag(1,2,3,4)"
	records := Parse(raw)
	require.Len(t, records, 4)
	kinds := []Kind{records[0].Kind, records[1].Kind, records[2].Kind, records[3].Kind}
	assert.Equal(t, []Kind{LeftClick, TypeText, Screenshot, Drag}, kinds)
}

func TestResolveLinearMapping(t *testing.T) {
	assert.Equal(t, Point{X: 368, Y: 232}, Resolve(500, 500, 736, 464))
	assert.Equal(t, Point{X: 0, Y: 0}, Resolve(0, 0, 736, 464))
	assert.Equal(t, Point{X: 736, Y: 464}, Resolve(1000, 1000, 736, 464))
	assert.Equal(t, Point{X: 74, Y: 46}, Resolve(100, 100, 736, 464))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "double_left_click", DoubleLeftClick.String())
	assert.Equal(t, "type", TypeText.String())
}
