// Package tui is the terminal front end: it lays out the configured charts,
// routes mouse input to them and redraws them.
package tui

import (
	"context"
	"io"
	"log/slog"
	"runtime/debug"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wandb/wandb/chartsync/internal/axis"
	"github.com/wandb/wandb/chartsync/internal/chart"
	"github.com/wandb/wandb/chartsync/internal/chartconfig"
	"github.com/wandb/wandb/chartsync/internal/cursor"
	"github.com/wandb/wandb/chartsync/internal/datawindow"
	"github.com/wandb/wandb/chartsync/internal/linked"
	"github.com/wandb/wandb/chartsync/internal/observability"
	"github.com/wandb/wandb/chartsync/internal/observability/wberrors"
	"github.com/wandb/wandb/chartsync/internal/render"
	"github.com/wandb/wandb/chartsync/internal/series"
)

// LoadFunc reads the points of every source, keyed by source name.
type LoadFunc func(ctx context.Context, sources []chartconfig.Source) (map[string][]series.Point, error)

type Params struct {
	// Config is the document shown first.
	Config *chartconfig.Config

	// Reload rereads the document on demand.
	Reload func() (*chartconfig.Config, error)

	Load     LoadFunc
	Renderer *render.Renderer
	Metrics  *linked.Metrics
	Logger   *observability.CoreLogger

	// Events receives chart callbacks as JSON lines. Nil disables them.
	Events io.Writer

	// Session tags every event, telling runs apart in a shared file.
	Session string
}

// ReloadMsg asks the model to show a new document.
type ReloadMsg struct {
	Config *chartconfig.Config
}

// dataMsg carries the sources of a document, read off the UI goroutine.
type dataMsg struct {
	config *chartconfig.Config
	data   map[string][]series.Point
	err    error
}

type errMsg struct {
	err error
}

// pane is one chart on screen, below its title line.
type pane struct {
	spec     chartconfig.Chart
	chart    *chart.Chart
	viewport *render.Viewport

	// top is the screen row of the chart's first line.
	top int
}

// Model is the bubbletea model of the chart viewer.
type Model struct {
	reload   func() (*chartconfig.Config, error)
	load     LoadFunc
	renderer *render.Renderer
	logger   *observability.CoreLogger
	events   *eventSink

	registry    *linked.Registry
	broadcaster *linked.Broadcaster
	measurer    axis.Measurer

	config  *chartconfig.Config
	panes   []*pane
	loading bool
	status  string

	width, height int

	keys keyMap
	help help.Model

	// pressed is the pane a strip or brush drag started on.
	pressed *pane
	pressX  int

	// hovered is the pane under the pointer.
	hovered *pane
}

func NewModel(params Params) *Model {
	if params.Logger == nil {
		params.Logger = observability.NewNoOpLogger()
	}
	registry := linked.NewRegistry()

	return &Model{
		reload:      params.Reload,
		load:        params.Load,
		renderer:    params.Renderer,
		logger:      params.Logger,
		events:      newEventSink(params.Events, params.Session, params.Logger),
		registry:    registry,
		broadcaster: linked.NewBroadcaster(registry, params.Metrics, params.Logger),
		measurer:    axis.NewCellMeasurer(1),
		config:      params.Config,
		loading:     true,
		keys:        newKeyMap(),
		help:        help.New(),
	}
}

// Init implements tea.Model.Init.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("chartsync"),
		m.loadCmd(m.config),
	)
}

// Update implements tea.Model.Update.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	defer m.logPanic("Update")

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.layout()

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case ReloadMsg:
		return m, m.loadCmd(msg.Config)

	case dataMsg:
		m.loading = false
		if msg.err != nil {
			m.fail(msg.err)
			return m, nil
		}
		m.rebuild(msg.config, msg.data)

	case errMsg:
		m.fail(msg.err)
	}

	return m, nil
}

// View implements tea.Model.View.
func (m *Model) View() string {
	defer m.logPanic("View")

	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.help.ShowAll {
		return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top,
			m.help.View(m.keys))
	}

	rows := make([]string, 0, 2*len(m.panes)+1)
	for _, p := range m.panes {
		rows = append(rows, m.renderer.Title(p.spec.Name, m.width))
		if out := m.renderer.Chart(p.chart); out != "" {
			rows = append(rows, out)
		}
	}
	rows = append(rows, m.statusBar())

	return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) statusBar() string {
	switch {
	case m.status != "":
		return m.status
	case m.loading:
		return "Loading data..."
	default:
		return m.help.View(m.keys)
	}
}

func (m *Model) fail(err error) {
	m.logger.CaptureError(err)
	m.status = err.Error()
}

func (m *Model) loadCmd(cfg *chartconfig.Config) tea.Cmd {
	if cfg == nil || m.load == nil {
		return nil
	}
	return func() tea.Msg {
		data, err := m.load(context.Background(), cfg.Sources)
		return dataMsg{config: cfg, data: data, err: err}
	}
}

// rebuild replaces every chart with those of cfg.
func (m *Model) rebuild(cfg *chartconfig.Config, data map[string][]series.Point) {
	for _, p := range m.panes {
		p.chart.Close()
	}
	m.panes, m.pressed, m.hovered = nil, nil, nil
	m.config = cfg
	m.status = ""

	rects := paneRects(cfg.Charts, m.width, m.height)
	handles := make(map[string]linked.Handle, len(cfg.Charts))
	for i, spec := range cfg.Charts {
		vp := render.NewViewport(rects[i].bounds)
		c, err := chart.New(m.engineConfig(spec, data), chart.Params{
			Viewport:    vp,
			Measurer:    m.measurer,
			Registry:    m.registry,
			Broadcaster: m.broadcaster,
			Logger:      m.logger,
		})
		if err != nil {
			m.fail(err)
			continue
		}
		handles[spec.Name] = c.Handle()
		m.panes = append(m.panes, &pane{spec: spec, chart: c, viewport: vp, top: rects[i].top})
	}

	for _, p := range m.panes {
		p.chart.SetLinks(p.spec.Links(handles))
	}

	// Charts forward their window to peers when built, so charts that
	// drive a peer are built again once every peer exists.
	for _, p := range m.panes {
		if err := p.chart.Build(); err != nil {
			m.fail(err)
		}
	}
	for _, p := range m.panes {
		if p.spec.Window != nil && p.spec.Window.Bind != "" {
			if err := p.chart.Build(); err != nil {
				m.fail(err)
			}
		}
	}

	m.logger.Debug("tui: rebuilt charts", slog.Int("charts", len(m.panes)))
}

// engineConfig converts spec and routes the chart's callbacks to the event
// sink.
func (m *Model) engineConfig(
	spec chartconfig.Chart,
	data map[string][]series.Point,
) chart.Config {
	cfg := spec.Engine(func(source string) []series.Point { return data[source] })
	if m.events == nil {
		return cfg
	}

	name := spec.Name
	cfg.Cursor.OnClick = func(ev chart.ClickEvent) { m.events.click(name, ev) }
	if spec.Cursor.HoverText {
		cfg.Cursor.OnHover = func(points []cursor.HoverPoint) { m.events.hover(name, points) }
	}
	if cfg.Window != nil {
		cfg.Window.OnChange = func(ch datawindow.Change) { m.events.window(name, ch) }
	}
	if cfg.Brush != nil {
		cfg.Brush.OnChange = func(ch chart.BrushChange) { m.events.brush(name, ch) }
	}
	return cfg
}

// layout resizes every pane to the window.
func (m *Model) layout() {
	specs := make([]chartconfig.Chart, len(m.panes))
	for i, p := range m.panes {
		specs[i] = p.spec
	}
	for i, r := range paneRects(specs, m.width, m.height) {
		m.panes[i].top = r.top
		m.panes[i].viewport.SetBounds(r.bounds)
	}
}

// Close releases the charts.
func (m *Model) Close() {
	for _, p := range m.panes {
		p.chart.Close()
	}
	m.panes = nil
}

func (m *Model) logPanic(context string) {
	if r := recover(); r != nil {
		m.logger.CaptureError(wberrors.Newf(
			"tui: panic in %s: %v\nstack trace:\n%s",
			context, r, debug.Stack(),
		))
		panic(r)
	}
}
