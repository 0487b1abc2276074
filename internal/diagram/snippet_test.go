package diagram_test

import (
	"testing"

	"github.com/ezerfernandes/mdplantuml/internal/diagram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFencedDiagram(t *testing.T) {
	t.Parallel()

	fence := "```plantuml\n@startuml\nA -> B\n@enduml\n```\n"
	source := "# Title\n\n" + fence + "\nafter\n"

	snippets, err := diagram.Build([]byte(source))
	require.NoError(t, err)
	require.Len(t, snippets, 1)

	snippet := snippets[0]
	assert.Equal(t, fence, source[snippet.Start:snippet.End])
	assert.Equal(t, []diagram.Diagram{"@startuml\nA -> B\n@enduml"}, snippet.Diagrams)
	require.NotNil(t, snippet.Fence)
	assert.Equal(t, "plantuml", snippet.Fence.Info)
	assert.Regexp(t, `^diagram_001_[0-9a-f]{10}$`, diagram.Name(snippet.Diagrams[0], 1, "diagram"))
}

func TestBuildBareDiagram(t *testing.T) {
	t.Parallel()

	bare := "@startuml Login\nA -> B\n@enduml"
	source := "text\n" + bare + "\nmore\n"

	snippets, err := diagram.Build([]byte(source))
	require.NoError(t, err)
	require.Len(t, snippets, 1)

	snippet := snippets[0]
	assert.Equal(t, bare, source[snippet.Start:snippet.End])
	assert.Nil(t, snippet.Fence)
	require.Len(t, snippet.Diagrams, 1)
	assert.Equal(t, "Login", snippet.Diagrams[0].Title())
	assert.Regexp(t, `_login$`, diagram.Name(snippet.Diagrams[0], 1, "diagram"))
}

func TestBuildIgnoresUnrelatedFence(t *testing.T) {
	t.Parallel()

	snippets, err := diagram.Build([]byte("```go\nfmt.Println(\"@startuml\")\n```\n"))
	require.NoError(t, err)
	assert.Empty(t, snippets)
}

func TestBuildFenceWithTwoDiagrams(t *testing.T) {
	t.Parallel()

	source := "~~~\n@startuml First\nA\n@enduml\n@startuml\nB\n@enduml\n~~~\n"

	snippets, err := diagram.Build([]byte(source))
	require.NoError(t, err)
	require.Len(t, snippets, 1)

	assert.Equal(t, 0, snippets[0].Start)
	assert.Equal(t, len(source), snippets[0].End)
	assert.Equal(t, []diagram.Diagram{"@startuml First\nA\n@enduml", "@startuml\nB\n@enduml"}, snippets[0].Diagrams)
}

func TestBuildWrapsDiagramFence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   []diagram.Diagram
	}{
		{
			name:   "plantuml",
			source: "```plantuml\nA -> B\n```\n",
			want:   []diagram.Diagram{"@startuml\nA -> B\n\n@enduml\n"},
		},
		{
			name:   "uml with options, any case",
			source: "```UML {theme=plain}\nA -> B\n```\n",
			want:   []diagram.Diagram{"@startuml\nA -> B\n\n@enduml\n"},
		},
		{
			name:   "prefix match",
			source: "~~~plantuml-sequence\nA -> B\n~~~\n",
			want:   []diagram.Diagram{"@startuml\nA -> B\n\n@enduml\n"},
		},
		{
			name:   "empty body",
			source: "```plantuml\n```\n",
		},
		{
			name:   "blank body",
			source: "```plantuml\n  \n\n```\n",
		},
		{
			name:   "stray end marker",
			source: "```plantuml\nA -> B\n@enduml\n```\n",
		},
		{
			name:   "other language",
			source: "```mermaid\nA --> B\n```\n",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			snippets, err := diagram.Build([]byte(tt.source))
			require.NoError(t, err)

			if tt.want == nil {
				assert.Empty(t, snippets)

				return
			}

			require.Len(t, snippets, 1)
			assert.Equal(t, tt.want, snippets[0].Diagrams)
			assert.Equal(t, 0, snippets[0].Start)
			assert.Equal(t, len(tt.source), snippets[0].End)
		})
	}
}

func TestBuildDropsBareDiagramCrossingFence(t *testing.T) {
	t.Parallel()

	source := "@startuml\nA\n```\n@enduml\n```\n"

	snippets, err := diagram.Build([]byte(source))
	require.NoError(t, err)
	assert.Empty(t, snippets)
}

func TestBuildOrdersSnippets(t *testing.T) {
	t.Parallel()

	source := "@startuml\nA\n@enduml\n" +
		"```uml\nB -> C\n```\n" +
		"text\n" +
		"@startuml\nD\n@enduml\n" +
		"```text\n@startuml\nE\n@enduml\n```\n"

	snippets, err := diagram.Build([]byte(source))
	require.NoError(t, err)
	require.Len(t, snippets, 4)

	for i := 1; i < len(snippets); i++ {
		assert.Less(t, snippets[i-1].Start, snippets[i].Start)
		assert.LessOrEqual(t, snippets[i-1].End, snippets[i].Start)
	}

	assert.Nil(t, snippets[0].Fence)
	assert.NotNil(t, snippets[1].Fence)
	assert.Nil(t, snippets[2].Fence)
	assert.NotNil(t, snippets[3].Fence)
	assert.Equal(t, []diagram.Diagram{"@startuml\nE\n@enduml"}, snippets[3].Diagrams)
}

func TestBuildNothing(t *testing.T) {
	t.Parallel()

	for _, source := range []string{"", "plain text\n", "@startuml\nunterminated\n", "```plantuml\nunterminated\n"} {
		snippets, err := diagram.Build([]byte(source))
		require.NoError(t, err)
		assert.Empty(t, snippets, source)
	}
}

func TestIsDiagramLang(t *testing.T) {
	t.Parallel()

	assert.True(t, diagram.IsDiagramLang("plantuml"))
	assert.True(t, diagram.IsDiagramLang(" PlantUML {theme=x}"))
	assert.True(t, diagram.IsDiagramLang("uml"))
	assert.True(t, diagram.IsDiagramLang("umlet"))
	assert.False(t, diagram.IsDiagramLang("mermaid"))
	assert.False(t, diagram.IsDiagramLang(""))
	assert.False(t, diagram.IsDiagramLang("text plantuml"))
}
