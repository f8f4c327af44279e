// Package panels provides UI panels for the application.
package panels

import (
	"fmt"

	"scan-cleaner/internal/analyze"
	"scan-cleaner/internal/app"
	"scan-cleaner/internal/stain"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// SidePanel provides the side panel with parameter and statistics tabs.
type SidePanel struct {
	state     *app.State
	container *container.AppTabs

	paramsPanel *ParamsPanel
	statsPanel  *StatsPanel
}

// NewSidePanel creates a new side panel.
func NewSidePanel(state *app.State) *SidePanel {
	sp := &SidePanel{state: state}

	sp.paramsPanel = NewParamsPanel(state)
	sp.statsPanel = NewStatsPanel()

	sp.container = container.NewAppTabs(
		container.NewTabItem("Detection", sp.paramsPanel.Container()),
		container.NewTabItem("Statistics", sp.statsPanel.Container()),
	)

	state.On(app.EventProcessingDone, func(data interface{}) {
		if res, ok := data.(*stain.Result); ok {
			sp.statsPanel.Update(res.Stats)
		}
	})

	return sp
}

// Container returns the panel container.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.container
}

// SyncParams refreshes the parameter controls from state, e.g. after a
// project load.
func (sp *SidePanel) SyncParams() {
	sp.paramsPanel.Sync()
}

// ParamsPanel edits the eight detection parameters. Slider values for
// window sizes are normalized to odd numbers before they reach the
// pipeline, which rejects even sizes outright.
type ParamsPanel struct {
	state     *app.State
	container fyne.CanvasObject

	brightness *paramSlider
	saturation *paramSlider
	meanSat    *paramSlider
	blackVal   *paramSlider
	blackSat   *paramSlider
	structSize *kernelSlider
	blurSize   *kernelSlider
	openSize   *kernelSlider

	suggestLabel *widget.Label
	syncing      bool
}

// NewParamsPanel creates the parameter controls.
func NewParamsPanel(state *app.State) *ParamsPanel {
	pp := &ParamsPanel{state: state}

	pp.brightness = newParamSlider("Brightness >", 0, 100, pp.apply)
	pp.saturation = newParamSlider("Saturation <", 0, 100, pp.apply)
	pp.meanSat = newParamSlider("Mean saturation <", 0, 100, pp.apply)
	pp.blackVal = newParamSlider("Ink brightness <", 0, 100, pp.apply)
	pp.blackSat = newParamSlider("Ink saturation <", 0, 100, pp.apply)
	pp.structSize = newKernelSlider("Ink protection radius", 3, 101, pp.apply)
	pp.blurSize = newKernelSlider("Blur window", 3, 31, pp.apply)
	pp.openSize = newKernelSlider("Denoise window", 3, 15, pp.apply)

	pp.suggestLabel = widget.NewLabel("")
	pp.suggestLabel.Wrapping = fyne.TextWrapWord

	suggestBtn := widget.NewButton("Suggest Thresholds", pp.onSuggest)
	resetBtn := widget.NewButton("Reset to Defaults", func() {
		pp.setParams(stain.DefaultParams())
		pp.apply()
	})

	pp.container = container.NewVScroll(container.NewVBox(
		widget.NewLabelWithStyle("Stain tests", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		pp.brightness.container,
		pp.saturation.container,
		pp.meanSat.container,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Ink protection", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		pp.blackVal.container,
		pp.blackSat.container,
		pp.structSize.container,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Windows", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		pp.blurSize.container,
		pp.openSize.container,
		widget.NewSeparator(),
		suggestBtn,
		pp.suggestLabel,
		resetBtn,
	))

	pp.Sync()
	return pp
}

// Container returns the panel container.
func (pp *ParamsPanel) Container() fyne.CanvasObject {
	return pp.container
}

// Sync loads the current state parameters into the controls without
// triggering a reprocess.
func (pp *ParamsPanel) Sync() {
	pp.syncing = true
	pp.setParams(pp.state.GetParams())
	pp.syncing = false
}

func (pp *ParamsPanel) setParams(p stain.Params) {
	pp.brightness.set(p.BrightnessThreshold)
	pp.saturation.set(p.SaturationThreshold)
	pp.meanSat.set(p.MeanSaturationThreshold)
	pp.blackVal.set(p.BlackBrightnessThreshold)
	pp.blackSat.set(p.BlackSaturationThreshold)
	pp.structSize.set(p.StructuringElementSize)
	pp.blurSize.set(p.BlurKernelSize)
	pp.openSize.set(p.OpeningKernelSize)
}

// apply pushes the edited parameters into state, which schedules a
// debounced reprocess.
func (pp *ParamsPanel) apply() {
	if pp.syncing {
		return
	}
	pp.state.SetParams(stain.Params{
		BrightnessThreshold:      pp.brightness.value(),
		SaturationThreshold:      pp.saturation.value(),
		MeanSaturationThreshold:  pp.meanSat.value(),
		BlackBrightnessThreshold: pp.blackVal.value(),
		BlackSaturationThreshold: pp.blackSat.value(),
		StructuringElementSize:   pp.structSize.value(),
		BlurKernelSize:           pp.blurSize.value(),
		OpeningKernelSize:        pp.openSize.value(),
	})
}

func (pp *ParamsPanel) onSuggest() {
	if pp.state.Layer == nil {
		pp.suggestLabel.SetText("Load an image first.")
		return
	}

	s := analyze.Suggest(stain.NewHSVBuffer(pp.state.Layer.Raster))
	pp.suggestLabel.SetText(fmt.Sprintf(
		"Suggested: brightness > %.0f, saturation < %.0f (mean V %.1f, mean S %.1f)",
		s.BrightnessThreshold, s.SaturationThreshold, s.MeanValue, s.MeanSaturation))

	p := pp.state.GetParams()
	p.BrightnessThreshold = s.BrightnessThreshold
	p.SaturationThreshold = s.SaturationThreshold
	pp.setParams(p)
	pp.apply()
}

// paramSlider is a labeled slider for a threshold value.
type paramSlider struct {
	slider    *widget.Slider
	label     *widget.Label
	container fyne.CanvasObject
}

func newParamSlider(name string, min, max float64, onChange func()) *paramSlider {
	ps := &paramSlider{
		slider: widget.NewSlider(min, max),
		label:  widget.NewLabel(name),
	}
	ps.slider.Step = 1
	ps.slider.OnChanged = func(v float64) {
		ps.label.SetText(fmt.Sprintf("%s %.0f", name, v))
		onChange()
	}
	ps.container = container.NewVBox(ps.label, ps.slider)
	return ps
}

func (ps *paramSlider) set(v float64) {
	ps.slider.SetValue(v)
}

func (ps *paramSlider) value() float64 {
	return ps.slider.Value
}

// kernelSlider is a labeled slider constrained to odd window sizes.
type kernelSlider struct {
	slider    *widget.Slider
	label     *widget.Label
	name      string
	container fyne.CanvasObject
}

func newKernelSlider(name string, min, max int, onChange func()) *kernelSlider {
	ks := &kernelSlider{
		slider: widget.NewSlider(float64(min), float64(max)),
		label:  widget.NewLabel(name),
		name:   name,
	}
	ks.slider.Step = 2 // odd-to-odd steps
	ks.slider.OnChanged = func(v float64) {
		ks.label.SetText(fmt.Sprintf("%s %d px", name, oddize(v)))
		onChange()
	}
	ks.container = container.NewVBox(ks.label, ks.slider)
	return ks
}

func (ks *kernelSlider) set(v int) {
	ks.slider.SetValue(float64(v))
	ks.label.SetText(fmt.Sprintf("%s %d px", ks.name, oddize(float64(v))))
}

func (ks *kernelSlider) value() int {
	return oddize(ks.slider.Value)
}

// oddize rounds a slider value to the nearest odd size >= 3.
func oddize(v float64) int {
	n := int(v)
	if n%2 == 0 {
		n++
	}
	if n < 3 {
		n = 3
	}
	return n
}

// StatsPanel shows the counters from the last processing run.
type StatsPanel struct {
	container fyne.CanvasObject
	label     *widget.Label
}

// NewStatsPanel creates an empty statistics panel.
func NewStatsPanel() *StatsPanel {
	sp := &StatsPanel{label: widget.NewLabel("No processing run yet.")}
	sp.label.Wrapping = fyne.TextWrapWord
	sp.container = container.NewVScroll(sp.label)
	return sp
}

// Container returns the panel container.
func (sp *StatsPanel) Container() fyne.CanvasObject {
	return sp.container
}

// Update renders the statistics record.
func (sp *StatsPanel) Update(s stain.Stats) {
	sp.label.SetText(fmt.Sprintf(
		"Bright pixels: %d\n"+
			"Low saturation: %d\n"+
			"Stain candidates: %d\n"+
			"Low-saturation area: %d\n"+
			"Ink pixels: %d\n"+
			"Shielded by ink: %d\n"+
			"Marked for removal: %d\n"+
			"Manually whitelisted: %d",
		s.BrightPixels, s.LowSatPixels, s.StainCandidates, s.LowSatAreaPixels,
		s.BlackPixels, s.NearBlackPixels, s.ReplacedPixels, s.WhitelistedPixels))
}
