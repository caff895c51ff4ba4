package keymap

// Binding describes a single key binding.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "gallery" or "canvas"
}

// All contains the default key bindings.
var All = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c", "esc"}, "Quit", "global"},
	{ActionHelp, []string{"?"}, "Show help", "global"},
	{ActionToggleStatus, []string{"s"}, "Toggle status bar", "global"},

	// Gallery
	{ActionNextImage, []string{"n", " ", "pgdown"}, "Next image", "gallery"},
	{ActionPrevImage, []string{"p", "backspace", "pgup"}, "Previous image", "gallery"},
	{ActionFirstImage, []string{"g", "home"}, "First image", "gallery"},
	{ActionLastImage, []string{"G", "end"}, "Last image", "gallery"},
	{ActionReload, []string{"r"}, "Show current image again", "gallery"},
	{ActionOpen, []string{"o"}, "Open a file, URL or data URI", "gallery"},

	// Canvas
	{ActionZoomIn, []string{"+", "="}, "Zoom in", "canvas"},
	{ActionZoomOut, []string{"-", "_"}, "Zoom out", "canvas"},
	{ActionFit, []string{"0", "z"}, "Fit to canvas", "canvas"},
	{ActionFullScreen, []string{"f"}, "Toggle fullscreen", "canvas"},
	{ActionPanLeft, []string{"h", "left"}, "Pan left", "canvas"},
	{ActionPanRight, []string{"l", "right"}, "Pan right", "canvas"},
	{ActionPanUp, []string{"k", "up"}, "Pan up", "canvas"},
	{ActionPanDown, []string{"j", "down"}, "Pan down", "canvas"},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range All {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}

// WithOverrides returns bindings with the keys of the named actions
// replaced. Unknown action names are reported and otherwise ignored.
func WithOverrides(bindings []Binding, overrides map[string][]string) (result []Binding, unknown []string) {
	result = make([]Binding, len(bindings))
	copy(result, bindings)

	for name, keys := range overrides {
		found := false
		for i := range result {
			if string(result[i].Action) == name {
				result[i].Keys = append([]string(nil), keys...)
				found = true
			}
		}
		if !found {
			unknown = append(unknown, name)
		}
	}
	return result, unknown
}
