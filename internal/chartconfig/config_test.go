package chartconfig_test

import (
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandb/wandb/chartsync/internal/axis"
	"github.com/wandb/wandb/chartsync/internal/chart"
	"github.com/wandb/wandb/chartsync/internal/chartconfig"
	"github.com/wandb/wandb/chartsync/internal/datawindow"
	"github.com/wandb/wandb/chartsync/internal/linked"
	"github.com/wandb/wandb/chartsync/internal/observability/wberrors"
	"github.com/wandb/wandb/chartsync/internal/render"
	"github.com/wandb/wandb/chartsync/internal/series"
)

const document = `
sources:
  - name: loss
    path: data/loss.parquet
    x: step
    y: loss
    x_category: true
  - name: sheet
    path: /abs/acc.xlsx
    x: epoch
    y: acc
charts:
  - name: overview
    height: 1
    series:
      - {name: loss, kind: bar, source: loss}
    brush:
      start: 0
      width: 20
      bind: detail
  - name: detail
    height: 3
    x_axes:
      - {kind: category, boundary_gap: false}
    y_axes:
      - {kind: value, tick_count: 4, grid_line: false, line_type: dash, min: 0}
    series:
      - {name: loss, kind: line, source: loss, color: "#ff0000"}
    window:
      type: fixed
      refresh: end
      end: 100
      width: 50
    cursor:
      hover: true
      click: true
      hover_peers: [overview]
      click_peers: [overview, detail]
      default: "12"
    fixed_padding:
      left: 6
`

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cfg/charts.yaml", []byte(document), 0o644))

	cfg, err := chartconfig.Load(fs, "/cfg/charts.yaml")
	require.NoError(t, err)

	require.Len(t, cfg.Sources, 2)
	assert.Equal(t, "/cfg/data/loss.parquet", cfg.Sources[0].Path)
	assert.Equal(t, chartconfig.FormatParquet, cfg.Sources[0].Format)
	assert.Equal(t, "/abs/acc.xlsx", cfg.Sources[1].Path)
	assert.Equal(t, chartconfig.FormatXLSX, cfg.Sources[1].Format)

	require.Len(t, cfg.Charts, 2)
	overview := cfg.Charts[0]
	assert.Len(t, overview.XAxes, 1, "missing axes get a default slot")
	assert.Len(t, overview.YAxes, 1)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name, doc, msg string
	}{
		{"bad yaml", "charts: [", "invalid YAML"},
		{
			"unknown format",
			"sources: [{name: a, path: a.csv, x: x, y: y}]",
			`unsupported format "csv"`,
		},
		{
			"missing columns",
			"sources: [{name: a, path: a.jsonl, x: x}]",
			"needs x and y",
		},
		{
			"duplicate chart",
			"charts: [{name: a}, {name: a}]",
			"must be unique",
		},
		{
			"unknown kind",
			"sources: [{name: s, path: s.jsonl, x: x, y: y}]\n" +
				"charts: [{name: a, series: [{kind: area, source: s}]}]",
			`no "area" chart type`,
		},
		{
			"unknown source",
			"charts: [{name: a, series: [{kind: bar, source: s}]}]",
			`unknown source "s"`,
		},
		{
			"unknown peer",
			"charts: [{name: a, window: {bind: b}}]",
			`unknown chart "b"`,
		},
		{
			"bad axis kind",
			"charts: [{name: a, x_axes: [{kind: log}]}]",
			`axis kind "log"`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := chartconfig.Parse([]byte(tc.doc))

			require.ErrorContains(t, err, tc.msg)
			assert.True(t, wberrors.IsConfiguration(err))
		})
	}
}

func TestEngine(t *testing.T) {
	cfg, err := chartconfig.Parse([]byte(document))
	require.NoError(t, err)
	points := []series.Point{{X: series.Category("1"), Y: series.Number(2)}}
	data := func(source string) []series.Point {
		if source == "loss" {
			return points
		}
		return nil
	}

	detail := cfg.Charts[1].Engine(data)

	assert.Equal(t, "detail", detail.Name)
	require.Len(t, detail.XAxes, 1)
	assert.Equal(t, axis.Category, detail.XAxes[0].Kind)
	assert.False(t, detail.XAxes[0].BoundaryGap)
	assert.True(t, detail.XAxes[0].Show, "unset flags keep their defaults")
	require.Len(t, detail.YAxes, 1)
	assert.Equal(t, 4, detail.YAxes[0].TickCount)
	assert.False(t, detail.YAxes[0].GridLine)
	assert.Equal(t, axis.Dash, detail.YAxes[0].LineType)
	require.NotNil(t, detail.YAxes[0].Min)
	assert.Zero(t, *detail.YAxes[0].Min)

	require.Len(t, detail.Series, 1)
	assert.Equal(t, series.Line, detail.Series[0].Kind)
	assert.Equal(t, "#ff0000", detail.Series[0].Color)
	assert.Equal(t, points, detail.Series[0].FullData)

	require.NotNil(t, detail.Window)
	assert.Equal(t, datawindow.Fixed, detail.Window.Kind)
	assert.Equal(t, datawindow.OnRelease, detail.Window.Refresh)
	assert.Nil(t, detail.Window.Start)
	assert.InDelta(t, 100, *detail.Window.End, 0)
	assert.Equal(t, 50, *detail.Window.Width)

	assert.True(t, detail.Cursor.Hover)
	assert.True(t, detail.Cursor.Click)
	require.NotNil(t, detail.Cursor.Default)
	assert.Equal(t, series.Category("12"), detail.Cursor.Default.X)
	require.NotNil(t, detail.FixedPadding.Left)
	assert.Equal(t, 6, *detail.FixedPadding.Left)
	assert.Nil(t, detail.FixedPadding.Top)

	overview := cfg.Charts[0].Engine(data)
	require.NotNil(t, overview.Brush)
	assert.Equal(t, 20, *overview.Brush.Params.Width)
	assert.Nil(t, overview.Window)
}

func TestEngine_HoverTextEnablesHover(t *testing.T) {
	c := chartconfig.Chart{Name: "a", Cursor: chartconfig.Cursor{HoverText: true}}

	cfg := c.Engine(func(string) []series.Point { return nil })

	assert.True(t, cfg.Cursor.Hover)
}

func TestEngine_DefaultCursorOnNumericCategories(t *testing.T) {
	cfg, err := chartconfig.Parse([]byte(`
sources:
  - {name: runs, path: runs.jsonl, x: step, y: loss}
charts:
  - name: steps
    series:
      - {name: loss, kind: bar, source: runs}
    cursor: {click: true, default: "2"}
`))
	require.NoError(t, err)
	data := func(string) []series.Point {
		return []series.Point{
			{X: series.Number(1), Y: series.Number(10)},
			{X: series.Number(2), Y: series.Number(20)},
			{X: series.Number(3), Y: series.Number(30)},
		}
	}

	c, err := chart.New(cfg.Charts[0].Engine(data), chart.Params{
		Viewport: render.NewViewport(chart.Bounds{Width: 100, Height: 20}),
		Measurer: axis.NewCellMeasurer(1),
	})
	require.NoError(t, err)
	require.NoError(t, c.Build())

	click := c.ClickCursor()
	assert.Equal(t, 1, click.Index)
	assert.True(t, click.Visible)
}

func TestLinks(t *testing.T) {
	cfg, err := chartconfig.Parse([]byte(document))
	require.NoError(t, err)
	handles := map[string]linked.Handle{"overview": 1, "detail": 2}

	links := cfg.Charts[1].Links(handles)
	assert.Equal(t, []linked.Handle{1}, links.Hover)
	assert.Equal(t, []linked.Handle{1, 2}, links.Click)

	brush := cfg.Charts[0].Links(handles)
	assert.Equal(t, linked.Handle(2), brush.Brush)
	assert.Equal(t, linked.NoHandle, brush.Window)
}

type fakeWatcher struct {
	mu        sync.Mutex
	callbacks map[string]func()
	finished  bool
}

func (w *fakeWatcher) Watch(path string, onChange func()) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.callbacks == nil {
		w.callbacks = make(map[string]func())
	}
	w.callbacks[path] = onChange
	return nil
}

func (w *fakeWatcher) Unwatch(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.callbacks, path)
}

func (w *fakeWatcher) paths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	var paths []string
	for p := range w.callbacks {
		paths = append(paths, p)
	}
	return paths
}

func (w *fakeWatcher) Finish() {
	w.mu.Lock()
	w.finished = true
	w.mu.Unlock()
}

func (w *fakeWatcher) fire(path string) {
	w.mu.Lock()
	cb := w.callbacks[path]
	w.mu.Unlock()
	cb()
}

func TestManager_ReloadsOnChange(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/charts.yaml", []byte(
		"sources: [{name: s, path: s.jsonl, x: x, y: y}]\ncharts: [{name: a}]"), 0o644))
	w := &fakeWatcher{}
	reloaded := make(chan *chartconfig.Config, 1)

	m, err := chartconfig.NewManager(chartconfig.ManagerParams{
		Fs:             fs,
		Path:           "/charts.yaml",
		Watcher:        w,
		ReloadInterval: time.Millisecond,
		OnReload:       func(c *chartconfig.Config) { reloaded <- c },
	})
	require.NoError(t, err)
	require.NoError(t, m.Watch())
	assert.ElementsMatch(t, []string{"/charts.yaml", "/s.jsonl"}, w.paths(),
		"sources are watched too")

	require.NoError(t, afero.WriteFile(fs, "/charts.yaml", []byte(
		"sources: [{name: t, path: t.jsonl, x: x, y: y}]\ncharts: [{name: a}, {name: b}]"), 0o644))
	w.fire("/charts.yaml")

	select {
	case cfg := <-reloaded:
		assert.Len(t, cfg.Charts, 2)
	case <-time.After(5 * time.Second):
		t.Fatal("expected a reload")
	}
	assert.Len(t, m.Config().Charts, 2)
	assert.ElementsMatch(t, []string{"/charts.yaml", "/t.jsonl"}, w.paths(),
		"watches follow the sources of the new document")

	m.Close()
	assert.True(t, w.finished)
}

func TestManager_KeepsLastGoodDocument(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/charts.yaml", []byte("charts: [{name: a}]"), 0o644))
	m, err := chartconfig.NewManager(chartconfig.ManagerParams{Fs: fs, Path: "/charts.yaml"})
	require.NoError(t, err)

	require.NoError(t, afero.WriteFile(fs, "/charts.yaml", []byte("charts: ["), 0o644))
	_, err = m.Reload()

	require.Error(t, err)
	assert.Len(t, m.Config().Charts, 1)
	m.Close()
}

func TestNewManager_MissingFile(t *testing.T) {
	_, err := chartconfig.NewManager(chartconfig.ManagerParams{
		Fs:   afero.NewMemMapFs(),
		Path: "/missing.yaml",
	})

	require.Error(t, err)
}
