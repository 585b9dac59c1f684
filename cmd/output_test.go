package cmd

import (
	"bytes"
	"encoding/json"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/comictalker/mangabaka/internal/comicmeta"
	"github.com/comictalker/mangabaka/internal/testutil"
)

func TestRenderSeriesTableGolden(t *testing.T) {
	gh := testutil.NewGoldenHelper(t, "testdata")

	series := []comicmeta.Series{
		{ID: "1", Name: "Naruto", StartYear: 1999, Format: "Manga", Publisher: "VIZ Media", Rating: 8.2},
		{ID: "2", Name: "Naruto: The Seventh Hokage and the Scarlet Spring", Format: "Manga"},
		{ID: "3", Name: "Naruto Collection"},
	}

	var buf bytes.Buffer
	require.NoError(t, renderSeriesList(&buf, "table", series))

	gh.AssertGoldenString("search_table.golden", buf.String())
}

func TestRenderSeriesListEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderSeriesList(&buf, "table", nil))
	assert.Equal(t, "No results.\n", buf.String())
}

func TestRenderSeriesListJSON(t *testing.T) {
	series := []comicmeta.Series{
		{ID: "1", Name: "Naruto", Aliases: []string{"NARUTO -ナルト-"}, Genres: []string{"Action"}},
	}

	var buf bytes.Buffer
	require.NoError(t, renderSeriesList(&buf, "json", series))

	var decoded []comicmeta.Series
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, series, decoded)
}

func TestRenderSeriesListYAML(t *testing.T) {
	series := []comicmeta.Series{
		{ID: "1", Name: "Naruto", Aliases: []string{}, Genres: []string{"Action"}},
	}

	var buf bytes.Buffer
	require.NoError(t, renderSeriesList(&buf, "yaml", series))

	var decoded []comicmeta.Series
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, series, decoded)
}

func TestRenderMetadataYAMLRoundTrip(t *testing.T) {
	md := comicmeta.NewMetadata(comicmeta.Origin{ID: "mangabaka", Name: "MangaBaka"})
	md.SeriesID = "10023"
	md.Series = "Monster"
	md.Publisher = "VIZ Media"
	md.Year = 1994
	md.Manga = true
	md.AddCredit("Naoki Urasawa", comicmeta.RoleWriter)

	var buf bytes.Buffer
	require.NoError(t, renderMetadata(&buf, "yaml", md))

	var decoded comicmeta.Metadata
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, md, decoded)
}

func TestTruncateCell(t *testing.T) {
	assert.Equal(t, "short", truncateCell("short", 10))
	assert.Equal(t, "long titl…", truncateCell("long title that keeps going", 10))
	assert.Equal(t, "tab to space", truncateCell("tab\tto\tspace", 20))
}

func TestTruncateCellCutsOnRuneBoundaries(t *testing.T) {
	got := truncateCell("ワンピース ワンピース ワンピース", 10)
	assert.Equal(t, "ワンピース ワンピ…", got)
	assert.True(t, utf8.ValidString(got))
}
