package diagram_test

import (
	"testing"

	"github.com/ezerfernandes/mdplantuml/internal/diagram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		source   string
		diagrams []string
	}{
		{
			name:     "single",
			source:   "x\n@startuml\nA -> B\n@enduml\ny",
			diagrams: []string{"@startuml\nA -> B\n@enduml"},
		},
		{
			name:     "markers case insensitive, body verbatim",
			source:   "@StartUML Foo\nAlice -> Bob\n@ENDUML",
			diagrams: []string{"@StartUML Foo\nAlice -> Bob\n@ENDUML"},
		},
		{
			name:     "back to back",
			source:   "@startuml\nA\n@enduml\n@startuml\nB\n@enduml\n",
			diagrams: []string{"@startuml\nA\n@enduml", "@startuml\nB\n@enduml"},
		},
		{
			name:     "markers do not nest",
			source:   "@startuml a\n@startuml b\nX\n@enduml\n@enduml\n",
			diagrams: []string{"@startuml a\n@startuml b\nX\n@enduml"},
		},
		{
			name:   "unterminated",
			source: "@startuml\nA -> B\n",
		},
		{
			name:   "start marker needs a line of its own",
			source: "@startuml A -> B @enduml",
		},
		{
			name:   "end before start",
			source: "@enduml\n@startuml\n",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			matches := diagram.Extract([]byte(tt.source), 0)
			require.Len(t, matches, len(tt.diagrams))

			for i, m := range matches {
				assert.Equal(t, tt.diagrams[i], string(m.Diagram))
				assert.Equal(t, tt.diagrams[i], tt.source[m.Start:m.End])
			}
		})
	}
}

func TestExtractOffsets(t *testing.T) {
	t.Parallel()

	matches := diagram.Extract([]byte("ab\n@startuml\nA\n@enduml"), 100)
	require.Len(t, matches, 1)

	assert.Equal(t, 103, matches[0].Start)
	assert.Equal(t, 103+len("@startuml\nA\n@enduml"), matches[0].End)
}

func TestTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		diagram string
		title   string
	}{
		{diagram: "@startuml\nA\n@enduml", title: ""},
		{diagram: "@startuml   \nA\n@enduml", title: ""},
		{diagram: "@startuml Login\nA\n@enduml", title: "Login"},
		{diagram: "@STARTUML\tLogin Flow \r\nA\n@enduml", title: "Login Flow"},
		{diagram: "@startumlX\nA\n@enduml", title: ""},
		{diagram: "@startuml\n@startuml Nested\n@enduml", title: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.title, diagram.Diagram(tt.diagram).Title(), tt.diagram)
	}
}

func TestWrap(t *testing.T) {
	t.Parallel()

	d := diagram.Wrap([]byte("A -> B\n"))

	assert.Equal(t, diagram.Diagram("@startuml\nA -> B\n\n@enduml\n"), d)
	assert.Empty(t, d.Title())
}

func TestHasMarker(t *testing.T) {
	t.Parallel()

	assert.True(t, diagram.HasMarker([]byte("A\n@EndUml\n")))
	assert.True(t, diagram.HasMarker([]byte("@startuml")))
	assert.False(t, diagram.HasMarker([]byte("A -> B\n")))
}
