// Package canvas provides the scan display with pan, zoom, and the
// whitelist brush.
package canvas

import (
	"image"
	"image/color"

	"scan-cleaner/internal/stain"
	"scan-cleaner/pkg/colorutil"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	minZoom  = 0.1
	maxZoom  = 10.0
	zoomStep = 1.25
)

// View selects which raster the canvas displays.
type View int

const (
	ViewSource View = iota
	ViewCleaned
	ViewOverlay
)

func (v View) String() string {
	switch v {
	case ViewSource:
		return "Source"
	case ViewCleaned:
		return "Cleaned"
	case ViewOverlay:
		return "Detection"
	default:
		return "Unknown"
	}
}

// ImageCanvas displays the scan (or a processing output) with zoom,
// pan, the amber whitelist overlay, and a brush for painting it.
type ImageCanvas struct {
	widget.BaseWidget

	source  *image.RGBA
	cleaned *image.RGBA
	overlay *image.RGBA
	view    View

	whitelist     *stain.Mask
	showWhitelist bool

	raster *fynecanvas.Raster
	zoom   float64

	brushEnabled bool
	brushRadius  int

	scroll  *zoomScroll
	content *paintableContent

	// Callbacks
	onZoomChange func(zoom float64)
	onBrush      func(x, y, radius int) // brush stroke at image coordinates
}

// NewImageCanvas creates an empty canvas.
func NewImageCanvas() *ImageCanvas {
	ic := &ImageCanvas{
		zoom:          1.0,
		brushRadius:   8,
		showWhitelist: true,
	}
	ic.ExtendBaseWidget(ic)

	ic.raster = fynecanvas.NewRaster(ic.draw)
	ic.raster.ScaleMode = fynecanvas.ImageScalePixels

	ic.content = newPaintableContent(ic, ic.raster)
	ic.scroll = newZoomScroll(ic.content, ic)

	return ic
}

// Container returns the canvas wrapped in its scroll container.
func (ic *ImageCanvas) Container() fyne.CanvasObject {
	return ic.scroll
}

func (ic *ImageCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(ic.scroll)
}

// SetSource sets the scan to display and drops stale outputs.
func (ic *ImageCanvas) SetSource(img *image.RGBA) {
	ic.source = img
	ic.cleaned = nil
	ic.overlay = nil
	ic.view = ViewSource
	ic.Refresh()
}

// SetResult sets the processing outputs.
func (ic *ImageCanvas) SetResult(cleaned, overlay *image.RGBA) {
	ic.cleaned = cleaned
	ic.overlay = overlay
	ic.Refresh()
}

// SetWhitelist sets the mask rendered as the amber overlay.
func (ic *ImageCanvas) SetWhitelist(m *stain.Mask) {
	ic.whitelist = m
	ic.Refresh()
}

// SetView switches between source, cleaned, and detection views.
func (ic *ImageCanvas) SetView(v View) {
	ic.view = v
	ic.Refresh()
}

// CurrentView returns the active view.
func (ic *ImageCanvas) CurrentView() View {
	return ic.view
}

// SetBrushEnabled toggles the whitelist brush. While enabled, drags
// paint instead of panning.
func (ic *ImageCanvas) SetBrushEnabled(enabled bool) {
	ic.brushEnabled = enabled
}

// SetBrushRadius sets the brush radius in image pixels.
func (ic *ImageCanvas) SetBrushRadius(r int) {
	if r > 0 {
		ic.brushRadius = r
	}
}

// OnBrush registers the brush stroke callback.
func (ic *ImageCanvas) OnBrush(fn func(x, y, radius int)) {
	ic.onBrush = fn
}

// OnZoomChange registers the zoom change callback.
func (ic *ImageCanvas) OnZoomChange(fn func(zoom float64)) {
	ic.onZoomChange = fn
}

// Zoom returns the current zoom factor.
func (ic *ImageCanvas) Zoom() float64 {
	return ic.zoom
}

// ZoomIn increases the zoom by one step.
func (ic *ImageCanvas) ZoomIn() {
	ic.setZoom(ic.zoom * zoomStep)
}

// ZoomOut decreases the zoom by one step.
func (ic *ImageCanvas) ZoomOut() {
	ic.setZoom(ic.zoom / zoomStep)
}

// ActualSize resets the zoom to 1:1.
func (ic *ImageCanvas) ActualSize() {
	ic.setZoom(1.0)
}

// FitToWindow scales the image to fit the visible area.
func (ic *ImageCanvas) FitToWindow() {
	if ic.source == nil {
		return
	}
	size := ic.scroll.Size()
	w, h := ic.source.Rect.Dx(), ic.source.Rect.Dy()
	if w == 0 || h == 0 || size.Width == 0 || size.Height == 0 {
		return
	}
	zx := float64(size.Width) / float64(w)
	zy := float64(size.Height) / float64(h)
	if zx < zy {
		ic.setZoom(zx)
	} else {
		ic.setZoom(zy)
	}
}

func (ic *ImageCanvas) setZoom(z float64) {
	if z < minZoom {
		z = minZoom
	}
	if z > maxZoom {
		z = maxZoom
	}
	ic.zoom = z
	ic.updateContentSize()
	if ic.onZoomChange != nil {
		ic.onZoomChange(z)
	}
	ic.Refresh()
}

func (ic *ImageCanvas) updateContentSize() {
	if ic.source == nil {
		return
	}
	w := float32(float64(ic.source.Rect.Dx()) * ic.zoom)
	h := float32(float64(ic.source.Rect.Dy()) * ic.zoom)
	ic.content.Resize(fyne.NewSize(w, h))
	ic.raster.Resize(fyne.NewSize(w, h))
	ic.scroll.Refresh()
}

// active returns the raster for the current view, falling back to the
// source while outputs are missing.
func (ic *ImageCanvas) active() *image.RGBA {
	switch ic.view {
	case ViewCleaned:
		if ic.cleaned != nil {
			return ic.cleaned
		}
	case ViewOverlay:
		if ic.overlay != nil {
			return ic.overlay
		}
	}
	return ic.source
}

// draw renders the active view at the current zoom with the whitelist
// overlay blended on top.
func (ic *ImageCanvas) draw(w, h int) image.Image {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	src := ic.active()
	if src == nil {
		return out
	}

	iw, ih := src.Rect.Dx(), src.Rect.Dy()
	for y := 0; y < h; y++ {
		sy := int(float64(y) / ic.zoom)
		if sy >= ih {
			continue
		}
		for x := 0; x < w; x++ {
			sx := int(float64(x) / ic.zoom)
			if sx >= iw {
				continue
			}
			c := src.RGBAAt(src.Rect.Min.X+sx, src.Rect.Min.Y+sy)
			if ic.showWhitelist && ic.whitelist != nil &&
				sx < ic.whitelist.Width && sy < ic.whitelist.Height &&
				ic.whitelist.At(sx, sy) {
				c = blend(c, colorutil.Amber, 0.45)
			}
			out.SetRGBA(x, y, c)
		}
	}
	return out
}

// blend mixes the overlay color into the base pixel by the given factor.
func blend(base, over color.RGBA, factor float64) color.RGBA {
	mix := func(b, o uint8) uint8 {
		return uint8(float64(b)*(1-factor) + float64(o)*factor)
	}
	return color.RGBA{
		R: mix(base.R, over.R),
		G: mix(base.G, over.G),
		B: mix(base.B, over.B),
		A: base.A,
	}
}

// imageCoords converts a viewport position to image coordinates.
func (ic *ImageCanvas) imageCoords(pos fyne.Position) (int, int, bool) {
	if ic.source == nil {
		return 0, 0, false
	}
	offset := ic.scroll.Offset()
	x := int(float64(pos.X+offset.X) / ic.zoom)
	y := int(float64(pos.Y+offset.Y) / ic.zoom)
	if x < 0 || y < 0 || x >= ic.source.Rect.Dx() || y >= ic.source.Rect.Dy() {
		return 0, 0, false
	}
	return x, y, true
}

// zoomScroll wraps a scroll container but intercepts wheel for zoom.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	canvas *ImageCanvas
}

func newZoomScroll(content fyne.CanvasObject, canvas *ImageCanvas) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	zs := &zoomScroll{scroll: scroll, canvas: canvas}
	zs.ExtendBaseWidget(zs)
	return zs
}

func (zs *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		zs.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		zs.canvas.ZoomOut()
	}
}

func (zs *zoomScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zs.scroll)
}

// Offset returns the scroll container's current offset.
func (zs *zoomScroll) Offset() fyne.Position {
	return zs.scroll.Offset
}

func (zs *zoomScroll) Size() fyne.Size {
	return zs.scroll.Size()
}

func (zs *zoomScroll) Refresh() {
	zs.scroll.Refresh()
	zs.BaseWidget.Refresh()
}

func (zs *zoomScroll) Resize(size fyne.Size) {
	zs.scroll.Resize(size)
	zs.BaseWidget.Resize(size)
}

// paintableContent wraps the raster to handle brush events.
type paintableContent struct {
	widget.BaseWidget
	canvas *ImageCanvas
	raster *fynecanvas.Raster
}

func newPaintableContent(ic *ImageCanvas, raster *fynecanvas.Raster) *paintableContent {
	pc := &paintableContent{canvas: ic, raster: raster}
	pc.ExtendBaseWidget(pc)
	return pc
}

func (pc *paintableContent) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(pc.raster)
}

func (pc *paintableContent) MinSize() fyne.Size {
	return pc.raster.MinSize()
}

// Tapped paints one brush stamp when the brush is enabled.
func (pc *paintableContent) Tapped(ev *fyne.PointEvent) {
	pc.brushAt(ev.Position)
}

// Dragged paints continuously along the drag path.
func (pc *paintableContent) Dragged(ev *fyne.DragEvent) {
	pc.brushAt(ev.Position)
}

func (pc *paintableContent) DragEnd() {}

func (pc *paintableContent) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		pc.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		pc.canvas.ZoomOut()
	}
}

func (pc *paintableContent) brushAt(pos fyne.Position) {
	ic := pc.canvas
	if !ic.brushEnabled || ic.onBrush == nil {
		return
	}
	x, y, ok := ic.imageCoords(pos)
	if !ok {
		return
	}
	ic.onBrush(x, y, ic.brushRadius)
}
