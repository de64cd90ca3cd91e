package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(Dataset{
		Headers: []string{"Name", "Email"},
		Rows: []map[string]string{
			{"Name": "Jane, Doe", "Email": "jane@example.com"},
			{"Name": "=SUM(A1)", "Email": "x@example.com"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Name,Email\n\"Jane, Doe\",jane@example.com\n'=SUM(A1),x@example.com\n", string(out))

	_, err = NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRenderSummary(t *testing.T) {
	out, err := NewPDFExporter().RenderSummary("Application", "APP-2026-00001", []Section{
		{Heading: "Personal", Fields: []Field{{Label: "Name", Value: "Jane Doe"}, {Label: "Phone"}}},
		{Heading: "Documents", Table: Dataset{Headers: []string{"Slot", "File"}, Rows: []map[string]string{{"Slot": "resume", "File": "cv.pdf"}}}},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = NewPDFExporter().RenderSummary("empty", "", nil)
	assert.Error(t, err)
}
