package export_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/klar/internal/export"
	"github.com/vytor/klar/internal/models"
	"github.com/vytor/klar/internal/services"
)

func sampleCards() []models.Card {
	a := models.NewCard(1, "hola", "hello", models.Keywords{"greeting", "spanish"})
	a.CorrectCount = 3
	a.WrongCount = 1
	a.Level = models.LevelAdvanced
	b := models.NewCard(1, "adiós; amigo", "bye", nil)
	return []models.Card{a, b}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, sampleCards()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Question;Answer;Correct;Wrong;Level;Keywords", lines[0])
	assert.Equal(t, "hola;hello;3;1;2;greeting, spanish", lines[1])
	assert.Equal(t, `"adiós; amigo";bye;0;0;1;`, lines[2])
}

func TestCSVRoundTripKeepsContent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, sampleCards()))

	result, err := export.ReadCSV(&buf)
	require.NoError(t, err)
	assert.Empty(t, result.Errors)

	want := []services.CardInput{
		{Question: "hola", Answer: "hello", Keywords: []string{"greeting", "spanish"}},
		{Question: "adiós; amigo", Answer: "bye"},
	}
	if diff := cmp.Diff(want, result.Cards); diff != "" {
		t.Errorf("imported cards mismatch (-want +got):\n%s", diff)
	}
}

func TestXLSXRoundTripKeepsContent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteXLSX(&buf, sampleCards()))

	result, err := export.ReadXLSX(&buf)
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Cards, 2)
	assert.Equal(t, "hola", result.Cards[0].Question)
	assert.Equal(t, []string{"greeting", "spanish"}, result.Cards[0].Keywords)
	assert.Equal(t, "bye", result.Cards[1].Answer)
}

func TestReadCSV_ReportsBadRows(t *testing.T) {
	input := strings.Join([]string{
		"capital of France;Paris;europe, capitals",
		";missing question;",
		"2+2;;",
		"lonely;keyword;one",
		"",
		"sky;blue;",
	}, "\n")

	result, err := export.ReadCSV(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, result.Cards, 2)
	assert.Equal(t, "Paris", result.Cards[0].Answer)
	assert.Equal(t, "sky", result.Cards[1].Question)

	require.Len(t, result.Errors, 3)
	assert.Empty(t, result.Cards[1].Keywords)
	assert.Equal(t, 2, result.Errors[0].Row)
	assert.Equal(t, 3, result.Errors[1].Row)
	assert.Equal(t, 4, result.Errors[2].Row)
	assert.ErrorIs(t, result.Errors[2], models.ErrInvalidKeywords)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    export.Format
		wantErr bool
	}{
		{"", export.FormatCSV, false},
		{"CSV", export.FormatCSV, false},
		{".xlsx", export.FormatXLSX, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		got, err := export.ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	f, err := export.FormatFromPath("/tmp/deck.XLSX")
	require.NoError(t, err)
	assert.Equal(t, export.FormatXLSX, f)
	_, err = export.FormatFromPath("deck")
	assert.Error(t, err)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "a_b.csv", export.FormatCSV.FileName("a/b"))
	assert.Equal(t, "cards.xlsx", export.FormatXLSX.FileName("  "))
}
