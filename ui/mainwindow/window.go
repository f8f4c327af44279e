// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"path/filepath"
	"time"

	"scan-cleaner/internal/app"
	"scan-cleaner/internal/image"
	"scan-cleaner/internal/stain"
	"scan-cleaner/internal/version"
	"scan-cleaner/ui/canvas"
	"scan-cleaner/ui/panels"
	"scan-cleaner/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const processDebounce = 300 * time.Millisecond

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	state     *app.State
	prefs     *prefs.Prefs
	runner    *app.Runner
	canvas    *canvas.ImageCanvas
	sidePanel *panels.SidePanel
	statusBar *widget.Label
	viewSel   *widget.Select
	brushChk  *widget.Check
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, appPrefs *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow(fmt.Sprintf("Scan Cleaner %s", version.Version))

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  appPrefs,
	}

	mw.runner = app.NewRunner(processDebounce, state.Logger(),
		mw.onProcessingDone, mw.onProcessingError)

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()

	win.Resize(fyne.NewSize(1200, 800))
	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewImageCanvas()
	mw.canvas.SetBrushRadius(mw.prefs.Int(prefs.KeyBrushSize, 8))
	mw.canvas.OnBrush(func(x, y, radius int) {
		mw.state.PaintWhitelist(x, y, radius)
	})

	mw.sidePanel = panels.NewSidePanel(mw.state)
	mw.statusBar = widget.NewLabel("Ready")

	toolbar := mw.createToolbar()

	canvasArea := container.NewBorder(
		toolbar, // top
		nil, nil, nil,
		mw.canvas.Container(), // center
	)

	split := container.NewHSplit(mw.sidePanel.Container(), canvasArea)
	split.SetOffset(0.25)

	content := container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar), // bottom
		nil, nil,
		split,
	)

	mw.SetContent(content)
}

// createToolbar creates the toolbar with zoom, view, and brush controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	zoomOutBtn := widget.NewButton("-", mw.canvas.ZoomOut)
	zoomInBtn := widget.NewButton("+", mw.canvas.ZoomIn)
	fitBtn := widget.NewButton("Fit", mw.canvas.FitToWindow)
	actualBtn := widget.NewButton("1:1", mw.canvas.ActualSize)

	mw.viewSel = widget.NewSelect(
		[]string{canvas.ViewSource.String(), canvas.ViewCleaned.String(), canvas.ViewOverlay.String()},
		func(sel string) {
			switch sel {
			case canvas.ViewCleaned.String():
				mw.canvas.SetView(canvas.ViewCleaned)
			case canvas.ViewOverlay.String():
				mw.canvas.SetView(canvas.ViewOverlay)
			default:
				mw.canvas.SetView(canvas.ViewSource)
			}
		})
	mw.viewSel.SetSelected(canvas.ViewSource.String())

	mw.brushChk = widget.NewCheck("Protect brush", func(on bool) {
		mw.canvas.SetBrushEnabled(on)
	})

	brushSize := widget.NewSlider(1, 64)
	brushSize.Step = 1
	brushSize.SetValue(float64(mw.prefs.Int(prefs.KeyBrushSize, 8)))
	brushSize.OnChanged = func(v float64) {
		mw.canvas.SetBrushRadius(int(v))
		mw.prefs.SetInt(prefs.KeyBrushSize, int(v))
	}
	brushSize.Resize(fyne.NewSize(120, brushSize.MinSize().Height))

	processBtn := widget.NewButton("Process", mw.requestProcessing)

	return container.NewHBox(
		widget.NewLabel("Zoom:"),
		zoomOutBtn, zoomInBtn, fitBtn, actualBtn,
		widget.NewSeparator(),
		widget.NewLabel("View:"), mw.viewSel,
		widget.NewSeparator(),
		mw.brushChk, brushSize,
		widget.NewSeparator(),
		processBtn,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mw.onOpenImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Open Project...", mw.onOpenProject),
		fyne.NewMenuItem("Save Project...", mw.onSaveProject),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Cleaned PNG...", mw.onExportCleaned),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo Brush", func() {
			if mw.state.UndoWhitelist() {
				mw.requestProcessing()
			}
		}),
		fyne.NewMenuItem("Redo Brush", func() {
			if mw.state.RedoWhitelist() {
				mw.requestProcessing()
			}
		}),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu))
}

// setupEventHandlers reacts to state changes.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventImageLoaded, func(data interface{}) {
		if layer, ok := data.(*image.Layer); ok {
			mw.canvas.SetSource(layer.Raster)
			mw.canvas.SetWhitelist(mw.state.WhitelistCopy())
			mw.statusBar.SetText(fmt.Sprintf("Loaded %s (%dx%d)",
				filepath.Base(layer.Path), layer.Width(), layer.Height()))
			mw.requestProcessing()
		}
	})

	mw.state.On(app.EventParamsChanged, func(interface{}) {
		mw.prefs.SetParams(mw.state.GetParams())
		mw.requestProcessing()
	})

	mw.state.On(app.EventWhitelistChanged, func(interface{}) {
		mw.canvas.SetWhitelist(mw.state.WhitelistCopy())
		mw.requestProcessing()
	})

	mw.state.On(app.EventProjectLoaded, func(interface{}) {
		mw.sidePanel.SyncParams()
	})
}

// requestProcessing schedules a debounced pipeline run on the current
// image with the current parameters and whitelist.
func (mw *MainWindow) requestProcessing() {
	if mw.state.Layer == nil {
		return
	}
	mw.statusBar.SetText("Processing...")
	mw.runner.Request(mw.state.Layer.Raster, mw.state.GetParams(), mw.state.WhitelistCopy())
}

func (mw *MainWindow) onProcessingDone(res *stain.Result) {
	mw.state.SetResult(res)
	mw.canvas.SetResult(res.Cleaned, res.Overlay)
	mw.statusBar.SetText(fmt.Sprintf(
		"Removed %d stain pixels (%d candidates, %d shielded by ink, %d whitelisted)",
		res.Stats.ReplacedPixels, res.Stats.StainCandidates,
		res.Stats.NearBlackPixels, res.Stats.WhitelistedPixels))
}

func (mw *MainWindow) onProcessingError(err error) {
	mw.statusBar.SetText(fmt.Sprintf("Processing failed: %v", err))
}

func (mw *MainWindow) onOpenImage() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		if err := mw.state.LoadImage(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.prefs.SetString(prefs.KeyLastImage, path)
		mw.prefs.SetString(prefs.KeyLastDir, filepath.Dir(path))
		_ = mw.prefs.Save()
	}, mw.Window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".tif", ".tiff"}))
	d.Show()
}

func (mw *MainWindow) onOpenProject() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		if err := mw.state.LoadProject(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".scanproj"}))
	d.Show()
}

func (mw *MainWindow) onSaveProject() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		if err := mw.state.SaveProject(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.statusBar.SetText(fmt.Sprintf("Project saved to %s", filepath.Base(path)))
	}, mw.Window)
	d.SetFileName("session.scanproj")
	d.Show()
}

func (mw *MainWindow) onExportCleaned() {
	result := mw.state.CurrentResult()
	if result == nil {
		dialog.ShowInformation("Nothing to export", "Run processing first.", mw.Window)
		return
	}

	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		if err := image.SavePNG(path, result.Cleaned); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.statusBar.SetText(fmt.Sprintf("Exported %s", filepath.Base(path)))
	}, mw.Window)
	d.SetFileName("cleaned.png")
	d.Show()
}

// RestoreLastImage reloads the most recently opened image, if any.
func (mw *MainWindow) RestoreLastImage() {
	if path := mw.prefs.String(prefs.KeyLastImage, ""); path != "" {
		if err := mw.state.LoadImage(path); err == nil {
			return
		}
	}
}
