package chart

//go:generate mockgen -source=viewport.go -destination=charttest/viewport_mock.go -package=charttest

// Bounds is the size of a chart's container in surface units.
type Bounds struct {
	Width, Height int
}

// ViewportProvider tells a chart how much room it has.
type ViewportProvider interface {
	// Bounds returns the current size of the container.
	Bounds() Bounds

	// OnResize calls fn with the new size whenever the container is
	// resized, until the returned function is called.
	OnResize(fn func(Bounds)) (cancel func())
}
