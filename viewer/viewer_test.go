package viewer

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/draw"

	"github.com/tsawler/revtable/extract"
	"github.com/tsawler/revtable/layout"
	"github.com/tsawler/revtable/model"
	"github.com/tsawler/revtable/ocr"
)

type fakePage struct {
	number  int
	runs    []model.PositionedRun
	runsErr error
}

func (p *fakePage) Number() int              { return p.number }
func (p *fakePage) Size() (float64, float64) { return 612, 792 }

func (p *fakePage) TextRuns() ([]model.PositionedRun, error) {
	return p.runs, p.runsErr
}

func (p *fakePage) Viewport(scale float64, rotation int) model.Viewport {
	return model.Viewport{Width: 61.2 * scale, Height: 79.2 * scale, Scale: scale, Rotation: rotation}
}

func (p *fakePage) Render(ctx context.Context, dst draw.Image, vp model.Viewport) error {
	return ctx.Err()
}

type fakeDoc struct {
	pages []*fakePage
}

func (d *fakeDoc) NumPages() int { return len(d.pages) }

func (d *fakeDoc) Page(n int) (extract.Page, error) {
	if n < 1 || n > len(d.pages) {
		return nil, errors.New("no such page")
	}
	return d.pages[n-1], nil
}

func eol(text string, x, y float64) model.PositionedRun {
	return model.PositionedRun{Text: text, X: x, Y: y, Width: 40, FontSize: 10, EndsLine: true}
}

// amendment is the two-page document used across tests: a cover page and
// a page that opens the comparison table
func amendment() *fakeDoc {
	return &fakeDoc{pages: []*fakePage{
		{number: 1, runs: []model.PositionedRun{eol("Cover", 72, 700), eol("Summary", 350, 700)}},
		{number: 2, runs: []model.PositionedRun{
			eol("MARKER", 72, 700),
			eol("row1-left", 72, 680),
			eol("row1-right", 350, 680),
		}},
	}}
}

func docLoader(docs ...Document) Loader {
	i := 0
	return LoaderFunc(func(ctx context.Context, data []byte) (Document, error) {
		d := docs[i%len(docs)]
		i++
		return d, nil
	})
}

func testConfig() (Config, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	config := DefaultConfig()
	config.Logger = logger
	config.StartMarker = "MARKER"
	config.Extract.Layout.Split = layout.SplitRowPair
	return config, hook
}

func surfacePage(v *Viewer) int {
	_, page := v.Surface().Snapshot()
	return page
}

func TestViewer_Lifecycle(t *testing.T) {
	config, _ := testConfig()
	v, err := New(config, docLoader(amendment()))
	require.NoError(t, err)
	defer v.Close()

	assert.Equal(t, Status{State: Empty}, v.Status())
	_, err = v.Next(context.Background())
	assert.ErrorIs(t, err, ErrNoDocument)
	assert.ErrorIs(t, v.WaitReady(context.Background()), ErrNoDocument)

	require.NoError(t, v.SelectFile(context.Background(), []byte("pdf")))
	assert.Equal(t, Status{State: Loaded, NumPages: 2, CurrentPage: 1}, v.Status())

	require.NoError(t, v.WaitReady(context.Background()))
	want := model.LogicalTable{
		LeftColumn:  []string{"MARKER", "row1-left"},
		RightColumn: []string{"", "row1-right"},
	}
	assert.Equal(t, want, v.Table())
	assert.Equal(t, 2, v.Table().RowCount())
	assert.Len(t, v.Pages(), 2)

	assert.Eventually(t, func() bool { return surfacePage(v) == 1 }, 5*time.Second, 5*time.Millisecond)
}

func TestViewer_Navigation(t *testing.T) {
	config, _ := testConfig()
	v, err := New(config, docLoader(amendment()))
	require.NoError(t, err)
	defer v.Close()

	require.NoError(t, v.SelectFile(context.Background(), []byte("pdf")))

	s, err := v.Previous(context.Background())
	require.NoError(t, err)
	assert.Nil(t, s, "no page before the first")
	assert.Equal(t, 1, v.Status().CurrentPage)

	s, err = v.Next(context.Background())
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, 2, s.Page())
	require.NoError(t, s.Wait(context.Background()))
	assert.Equal(t, 2, surfacePage(v))

	s, err = v.Next(context.Background())
	require.NoError(t, err)
	assert.Nil(t, s, "no page after the last")
	assert.Equal(t, 2, v.Status().CurrentPage)

	s, err = v.Previous(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.Wait(context.Background()))
	assert.Equal(t, 1, v.Status().CurrentPage)

	_, err = v.GoTo(context.Background(), 3)
	assert.Error(t, err)
}

func TestViewer_LoadError(t *testing.T) {
	config, hook := testConfig()
	loadErr := errors.New("not a pdf")
	v, err := New(config, LoaderFunc(func(ctx context.Context, data []byte) (Document, error) {
		return nil, loadErr
	}))
	require.NoError(t, err)

	err = v.SelectFile(context.Background(), []byte("junk"))
	assert.ErrorIs(t, err, loadErr)
	assert.Equal(t, Status{State: Empty}, v.Status())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestViewer_BusyWhileLoading(t *testing.T) {
	config, _ := testConfig()
	release := make(chan struct{})
	v, err := New(config, LoaderFunc(func(ctx context.Context, data []byte) (Document, error) {
		<-release
		return amendment(), nil
	}))
	require.NoError(t, err)
	defer v.Close()

	errc := make(chan error, 1)
	go func() { errc <- v.SelectFile(context.Background(), []byte("pdf")) }()

	require.Eventually(t, func() bool { return v.Status().State == Loading }, 5*time.Second, time.Millisecond)
	_, err = v.Next(context.Background())
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	require.NoError(t, <-errc)
	assert.Equal(t, Loaded, v.Status().State)
}

func TestViewer_PageFailureContributesEmptyPage(t *testing.T) {
	config, hook := testConfig()
	doc := amendment()
	doc.pages = append(doc.pages, &fakePage{number: 3, runsErr: errors.New("bad stream")})

	v, err := New(config, docLoader(doc))
	require.NoError(t, err)
	defer v.Close()

	require.NoError(t, v.SelectFile(context.Background(), []byte("pdf")))
	require.NoError(t, v.WaitReady(context.Background()))

	pages := v.Pages()
	require.Len(t, pages, 3)
	assert.True(t, pages[2].Empty())
	assert.Equal(t, 2, v.Table().RowCount())

	warned := false
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Message == "failed to extract page" {
			warned = true
		}
	}
	assert.True(t, warned, "page failure should be logged at warn")
}

func TestViewer_NewSelectionReplaces(t *testing.T) {
	config, _ := testConfig()
	other := &fakeDoc{pages: []*fakePage{
		{number: 1, runs: []model.PositionedRun{eol("MARKER", 72, 700), eol("new", 350, 700)}},
	}}
	v, err := New(config, docLoader(amendment(), other))
	require.NoError(t, err)
	defer v.Close()

	require.NoError(t, v.SelectFile(context.Background(), []byte("first")))
	require.NoError(t, v.WaitReady(context.Background()))
	_, err = v.Next(context.Background())
	require.NoError(t, err)

	require.NoError(t, v.SelectFile(context.Background(), []byte("second")))
	assert.Equal(t, Status{State: Loaded, NumPages: 1, CurrentPage: 1}, v.Status())

	require.NoError(t, v.WaitReady(context.Background()))
	assert.Equal(t, model.LogicalTable{LeftColumn: []string{"MARKER"}, RightColumn: []string{"new"}}, v.Table())
}

func TestViewer_RecognizeOnRender(t *testing.T) {
	config, _ := testConfig()
	config.RecognizeOnRender = true
	config.Extract.Engine = ocr.EngineFunc(func(ctx context.Context, img image.Image, lang string, progress ocr.ProgressFunc) (string, error) {
		return "1 Alpha Beta\nNote\n2 Gamma", nil
	})

	v, err := New(config, docLoader(amendment()))
	require.NoError(t, err)
	defer v.Close()

	require.NoError(t, v.SelectFile(context.Background(), []byte("pdf")))

	want := model.RecognizedRows{{"1", "Alpha", "Beta"}, {"2", "Gamma"}}
	assert.Eventually(t, func() bool { return len(v.Recognized()) == 2 }, 5*time.Second, 5*time.Millisecond)
	assert.Equal(t, want, v.Recognized())

	s, err := v.Next(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.Wait(context.Background()))
	assert.Eventually(t, func() bool { return len(v.Recognized()) == 4 }, 5*time.Second, 5*time.Millisecond)
}

func TestViewer_OCRStrategy(t *testing.T) {
	config, _ := testConfig()
	config.StartMarker = ""
	config.Extract.Strategy = extract.StrategyOCR
	config.Extract.Engine = ocr.EngineFunc(func(ctx context.Context, img image.Image, lang string, progress ocr.ProgressFunc) (string, error) {
		return "7 Row", nil
	})

	v, err := New(config, docLoader(amendment()))
	require.NoError(t, err)
	defer v.Close()

	require.NoError(t, v.SelectFile(context.Background(), []byte("pdf")))
	require.NoError(t, v.WaitReady(context.Background()))

	assert.Equal(t, model.RecognizedRows{{"7", "Row"}, {"7", "Row"}}, v.Recognized())
	assert.Equal(t, 0, v.Table().RowCount())
}

func TestViewer_OCRStrategyWithRecognizeOnRender(t *testing.T) {
	config, _ := testConfig()
	config.StartMarker = ""
	config.RecognizeOnRender = true
	config.Extract.Strategy = extract.StrategyOCR
	config.Extract.Engine = ocr.EngineFunc(func(ctx context.Context, img image.Image, lang string, progress ocr.ProgressFunc) (string, error) {
		return "7 Row", nil
	})

	v, err := New(config, docLoader(amendment()))
	require.NoError(t, err)
	defer v.Close()

	require.NoError(t, v.SelectFile(context.Background(), []byte("pdf")))
	require.NoError(t, v.WaitReady(context.Background()))
	assert.Eventually(t, func() bool { return len(v.Recognized()) == 1 }, 5*time.Second, 5*time.Millisecond)

	// Only the rendered page contributes rows
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, model.RecognizedRows{{"7", "Row"}}, v.Recognized())
}

func TestViewer_RepeatedMarkerSurvivesHeaderDetection(t *testing.T) {
	config, _ := testConfig()
	config.Extract = extract.DefaultConfig()

	doc := &fakeDoc{pages: []*fakePage{
		{number: 1, runs: []model.PositionedRun{eol("left body", 72, 500)}},
		{number: 2, runs: []model.PositionedRun{
			eol("MARKER", 72, 760),
			eol("REVISED", 350, 760),
			eol("a", 72, 500),
			eol("b", 350, 500),
		}},
		{number: 3, runs: []model.PositionedRun{
			eol("MARKER", 72, 760),
			eol("REVISED", 350, 760),
			eol("c", 72, 500),
			eol("d", 350, 500),
		}},
	}}

	v, err := New(config, docLoader(doc))
	require.NoError(t, err)
	defer v.Close()

	require.NoError(t, v.SelectFile(context.Background(), []byte("pdf")))
	require.NoError(t, v.WaitReady(context.Background()))

	want := model.LogicalTable{
		LeftColumn:  []string{"MARKER", "a", "MARKER", "c"},
		RightColumn: []string{"REVISED", "b", "REVISED", "d"},
	}
	assert.Equal(t, want, v.Table())
}

func TestViewer_Close(t *testing.T) {
	config, _ := testConfig()
	v, err := New(config, docLoader(amendment()))
	require.NoError(t, err)

	require.NoError(t, v.SelectFile(context.Background(), []byte("pdf")))
	require.NoError(t, v.Close())

	assert.Equal(t, Status{State: Empty}, v.Status())
	assert.Equal(t, 0, v.Table().RowCount())
	assert.Equal(t, 0, surfacePage(v))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "empty", Empty.String())
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "loaded", Loaded.String())
}
