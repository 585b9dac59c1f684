package cmd

import (
	"bytes"
	"context"
	"image/color"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/comictalker/mangabaka/internal/comicmeta"
	"github.com/comictalker/mangabaka/internal/comictalker"
)

// timeout is generous enough that no fake-backed command ever hits it.
func timeout() time.Duration { return 5 * time.Second }

// coverImageBytes renders a small solid image for fake cover servers.
func coverImageBytes(t *testing.T) []byte {
	t.Helper()

	img := imaging.New(40, 60, color.NRGBA{R: 120, G: 40, B: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

// fakeTalker lets command tests script talker behavior without a network.
type fakeTalker struct {
	info     comictalker.Info
	searchFn func(ctx context.Context, q comictalker.SearchQuery) ([]comicmeta.Series, error)
	fetchFn  func(ctx context.Context, req comictalker.FetchRequest) (comicmeta.Metadata, error)
	checkFn  func(ctx context.Context) comictalker.CheckResult
}

func (f *fakeTalker) Info() comictalker.Info {
	if f.info.ID == "" {
		return comictalker.Info{ID: "fake", Name: "Fake", Version: "0.0.1"}
	}
	return f.info
}

func (f *fakeTalker) SearchSeries(ctx context.Context, q comictalker.SearchQuery) ([]comicmeta.Series, error) {
	if f.searchFn == nil {
		return []comicmeta.Series{}, nil
	}
	return f.searchFn(ctx, q)
}

func (f *fakeTalker) FetchSeries(ctx context.Context, seriesID string) (comicmeta.Series, error) {
	return comicmeta.Series{ID: seriesID, Name: "Fake Series"}, nil
}

func (f *fakeTalker) FetchComic(ctx context.Context, req comictalker.FetchRequest) (comicmeta.Metadata, error) {
	if f.fetchFn == nil {
		md := comicmeta.NewMetadata(comicmeta.Origin{ID: "fake", Name: "Fake"})
		md.SeriesID = req.SeriesID
		md.Series = "Fake Series"
		return md, nil
	}
	return f.fetchFn(ctx, req)
}

func (f *fakeTalker) FetchIssues(ctx context.Context, seriesID string) ([]comicmeta.Metadata, error) {
	md, err := f.FetchComic(ctx, comictalker.FetchRequest{SeriesID: seriesID})
	if err != nil {
		return nil, err
	}
	return []comicmeta.Metadata{md}, nil
}

func (f *fakeTalker) Check(ctx context.Context) comictalker.CheckResult {
	if f.checkFn == nil {
		return comictalker.CheckResult{OK: true, Message: "The URL is valid"}
	}
	return f.checkFn(ctx)
}

// withFakeTalker routes lookupTalker to the fake and captures stdout for the
// duration of the test.
func withFakeTalker(t *testing.T, fake comictalker.Talker) *bytes.Buffer {
	t.Helper()

	origLookup := lookupTalker
	origStdout := stdout
	t.Cleanup(func() {
		lookupTalker = origLookup
		stdout = origStdout
		viper.Reset()
	})

	lookupTalker = func() (comictalker.Talker, error) { return fake, nil }
	buf := &bytes.Buffer{}
	stdout = buf
	return buf
}
