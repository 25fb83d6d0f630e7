package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(Dataset{
		Headers: []string{"title", "subject_code"},
		Rows: []map[string]string{
			{"title": "Mechanics, 2023", "subject_code": "PHY101"},
			{"title": "Optics"},
		},
	})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "title,subject_code", lines[0])
	assert.Equal(t, `"Mechanics, 2023",PHY101`, lines[1])
	assert.Equal(t, "Optics,", lines[2])
}

func TestCSVExporterNeutralisesFormulas(t *testing.T) {
	out, err := NewCSVExporter().Render(Dataset{
		Headers: []string{"title", "downloads"},
		Rows: []map[string]string{
			{"title": "=HYPERLINK(\"x\")", "downloads": "-3"},
			{"title": "@sum", "downloads": "12"},
		},
	})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `"'=HYPERLINK(""x"")",'-3`, lines[1])
	assert.Equal(t, "'@sum,12", lines[2])
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
}

func TestSheetExporterRender(t *testing.T) {
	out, err := NewSheetExporter().Render(Sheet{
		Title:    "PHY101 Final 2023",
		Subtitle: "First year",
		Items: []SheetItem{
			{Number: "1", Content: "What is force?"},
			{Number: "2", Content: "Define energy.\n(2 marks)", Figures: []string{"https://cdn.example.com/fig.png"}},
		},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestSheetExporterRequiresTitle(t *testing.T) {
	_, err := NewSheetExporter().Render(Sheet{})
	require.Error(t, err)
}
