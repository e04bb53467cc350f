// Package chartconfig reads the YAML document describing a set of linked
// charts and the data sources feeding them.
package chartconfig

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/wandb/wandb/chartsync/internal/axis"
	"github.com/wandb/wandb/chartsync/internal/datawindow"
	"github.com/wandb/wandb/chartsync/internal/observability/wberrors"
	"github.com/wandb/wandb/chartsync/internal/series"
)

// Source formats.
const (
	FormatParquet = "parquet"
	FormatXLSX    = "xlsx"
	FormatJSONL   = "jsonl"
)

// Config is the whole document.
type Config struct {
	Charts  []Chart  `yaml:"charts"`
	Sources []Source `yaml:"sources"`
}

// Source is a table of points read from a file.
type Source struct {
	Name   string `yaml:"name"`
	Path   string `yaml:"path"`
	Format string `yaml:"format"`

	// X and Y name the columns holding the point coordinates.
	X string `yaml:"x"`
	Y string `yaml:"y"`

	// XCategory and YCategory read a column as labels even when it is
	// numeric.
	XCategory bool `yaml:"x_category"`
	YCategory bool `yaml:"y_category"`

	// Sheet selects the worksheet of an xlsx file. The first sheet is used
	// when empty.
	Sheet string `yaml:"sheet"`
}

// Chart describes one chart.
type Chart struct {
	Name string `yaml:"name"`

	// Height is the share of the screen the chart takes, relative to the
	// other charts.
	Height int `yaml:"height"`

	XAxes  []Axis   `yaml:"x_axes"`
	YAxes  []Axis   `yaml:"y_axes"`
	Series []Series `yaml:"series"`

	Window *Window  `yaml:"window"`
	Brush  *Brush   `yaml:"brush"`
	Cursor Cursor   `yaml:"cursor"`
	Pad    *Padding `yaml:"fixed_padding"`
}

// Axis is one axis slot. Unset flags default to true.
type Axis struct {
	Kind        string   `yaml:"kind"`
	Position    string   `yaml:"position"`
	TickCount   *int     `yaml:"tick_count"`
	BoundaryGap *bool    `yaml:"boundary_gap"`
	Flip        bool     `yaml:"flip"`
	Show        *bool    `yaml:"show"`
	GridLine    *bool    `yaml:"grid_line"`
	Border      *bool    `yaml:"border"`
	LineType    string   `yaml:"line_type"`
	TickDisplay string   `yaml:"tick_display"`
	TextAlign   string   `yaml:"text_align"`
	Min         *float64 `yaml:"min"`
	Max         *float64 `yaml:"max"`
}

// Series binds a data source to a chart type and axes.
type Series struct {
	Name   string `yaml:"name"`
	Kind   string `yaml:"kind"`
	Source string `yaml:"source"`
	Color  string `yaml:"color"`
	XAxis  int    `yaml:"x_axis"`
	YAxis  int    `yaml:"y_axis"`
}

// Window configures the zoom strip.
type Window struct {
	Series  int      `yaml:"series"`
	Type    string   `yaml:"type"`
	Refresh string   `yaml:"refresh"`
	Start   *float64 `yaml:"start"`
	End     *float64 `yaml:"end"`
	Width   *int     `yaml:"width"`

	// Bind names the chart re-sliced along with this one.
	Bind string `yaml:"bind"`
}

// Brush configures range selection on a bar overview.
type Brush struct {
	Start *float64 `yaml:"start"`
	End   *float64 `yaml:"end"`
	Width *int     `yaml:"width"`

	// Bind names the chart whose window follows the selection.
	Bind string `yaml:"bind"`
}

// Cursor configures hover and click cursors.
type Cursor struct {
	Hover      bool     `yaml:"hover"`
	HoverText  bool     `yaml:"hover_text"`
	HoverPeers []string `yaml:"hover_peers"`
	Click      bool     `yaml:"click"`
	ClickPeers []string `yaml:"click_peers"`

	// Default is the X (or Y, for row charts) value of the initial click
	// cursor.
	Default string `yaml:"default"`
}

// Padding overrides computed margins.
type Padding struct {
	Top    *int `yaml:"top"`
	Right  *int `yaml:"right"`
	Bottom *int `yaml:"bottom"`
	Left   *int `yaml:"left"`
}

// Parse decodes and validates a document.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, wberrors.Configf("chartconfig: invalid YAML: %v", err)
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads and parses the document at path.
//
// Relative source paths are resolved against the document's directory.
func Load(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, wberrors.Enrichf(err, "chartconfig: reading %s", path)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, wberrors.Enrichf(err, "chartconfig: %s", path)
	}

	dir := filepath.Dir(path)
	for i := range cfg.Sources {
		if !filepath.IsAbs(cfg.Sources[i].Path) {
			cfg.Sources[i].Path = filepath.Join(dir, cfg.Sources[i].Path)
		}
	}
	return cfg, nil
}

// normalize fills in defaults.
func (cfg *Config) normalize() {
	for i := range cfg.Sources {
		src := &cfg.Sources[i]
		if src.Format == "" {
			src.Format = strings.TrimPrefix(strings.ToLower(filepath.Ext(src.Path)), ".")
		}
	}

	for i := range cfg.Charts {
		c := &cfg.Charts[i]
		if c.Height <= 0 {
			c.Height = 1
		}
		if len(c.XAxes) == 0 {
			c.XAxes = []Axis{{}}
		}
		if len(c.YAxes) == 0 {
			c.YAxes = []Axis{{}}
		}
	}
}

func (cfg *Config) validate() error {
	sources := make(map[string]struct{}, len(cfg.Sources))
	for _, src := range cfg.Sources {
		switch src.Format {
		case FormatParquet, FormatXLSX, FormatJSONL:
		default:
			return wberrors.Configf(
				"chartconfig: source %q has unsupported format %q",
				src.Name, src.Format,
			).Attr(slog.String("path", src.Path))
		}
		if src.X == "" || src.Y == "" {
			return wberrors.Configf("chartconfig: source %q needs x and y columns", src.Name)
		}
		sources[src.Name] = struct{}{}
	}

	charts := make(map[string]struct{}, len(cfg.Charts))
	for _, c := range cfg.Charts {
		if _, dup := charts[c.Name]; dup || c.Name == "" {
			return wberrors.Configf("chartconfig: chart names must be unique and set, got %q", c.Name)
		}
		charts[c.Name] = struct{}{}
	}

	for _, c := range cfg.Charts {
		for _, s := range c.Series {
			if _, ok := series.ParseKind(s.Kind); !ok {
				return wberrors.Configf("chartconfig: chart %q: no %q chart type", c.Name, s.Kind)
			}
			if _, ok := sources[s.Source]; !ok {
				return wberrors.Configf("chartconfig: chart %q: unknown source %q", c.Name, s.Source)
			}
		}
		for _, peer := range c.peers() {
			if _, ok := charts[peer]; !ok {
				return wberrors.Configf("chartconfig: chart %q links to unknown chart %q", c.Name, peer)
			}
		}
		for _, a := range append(append([]Axis{}, c.XAxes...), c.YAxes...) {
			if err := a.validate(); err != nil {
				return wberrors.Enrichf(err, "chartconfig: chart %q", c.Name)
			}
		}
	}
	return nil
}

// peers lists every chart name c links to.
func (c Chart) peers() []string {
	var names []string
	names = append(names, c.Cursor.HoverPeers...)
	names = append(names, c.Cursor.ClickPeers...)
	if c.Window != nil && c.Window.Bind != "" {
		names = append(names, c.Window.Bind)
	}
	if c.Brush != nil && c.Brush.Bind != "" {
		names = append(names, c.Brush.Bind)
	}
	return names
}

func (a Axis) validate() error {
	switch axis.Kind(a.Kind) {
	case "", axis.Category, axis.Value, axis.Time:
	default:
		return wberrors.Configf("axis kind %q is not category, value or time", a.Kind)
	}
	switch axis.LineType(a.LineType) {
	case "", axis.Solid, axis.Dash:
	default:
		return wberrors.Configf("axis line type %q is not solid or dash", a.LineType)
	}
	return nil
}

// Spec converts a to an axis spec of the given orientation.
func (a Axis) Spec(o axis.Orientation) axis.Spec {
	spec := axis.NewX()
	if o == axis.Vertical {
		spec = axis.NewY()
	}

	if a.Kind != "" {
		spec.Kind = axis.Kind(a.Kind)
		if spec.Kind != axis.Category && spec.TickCount == 0 {
			spec.TickCount = axis.DefaultTickCount
		}
		if spec.Kind == axis.Category && a.TickCount == nil {
			spec.TickCount = 0
		}
	}
	if a.Position != "" {
		spec.Position = axis.Position(a.Position)
	}
	if a.TickCount != nil {
		spec.TickCount = *a.TickCount
	}
	spec.BoundaryGap = boolOr(a.BoundaryGap, spec.BoundaryGap)
	spec.Flip = a.Flip
	spec.Show = boolOr(a.Show, spec.Show)
	spec.GridLine = boolOr(a.GridLine, spec.GridLine)
	spec.Border = boolOr(a.Border, spec.Border)
	if a.LineType != "" {
		spec.LineType = axis.LineType(a.LineType)
	}
	if a.TickDisplay != "" {
		spec.TickDisplay = axis.TickDisplay(a.TickDisplay)
	}
	spec.TextAlign = axis.TextAlign(a.TextAlign)
	spec.Min, spec.Max = a.Min, a.Max
	return spec
}

// Params converts w to data window parameters.
func (w Window) Params() datawindow.Params {
	return datawindow.Params{
		SeriesIndex: w.Series,
		Kind:        datawindow.Kind(w.Type),
		Refresh:     datawindow.Refresh(w.Refresh),
		Start:       w.Start,
		End:         w.End,
		Width:       w.Width,
	}
}

// Params converts b to the initial brush selection.
func (b Brush) Params() datawindow.Params {
	return datawindow.Params{Start: b.Start, End: b.End, Width: b.Width}
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
