//go:build wasm

package main

import (
	"log/slog"
	"strings"
	"syscall/js"
)

// consoleWriter forwards log lines to the browser console.
type consoleWriter struct{}

func (consoleWriter) Write(p []byte) (int, error) {
	js.Global().Get("console").Call("debug", strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

var logger = slog.New(slog.NewTextHandler(consoleWriter{}, &slog.HandlerOptions{Level: slog.LevelWarn}))

func main() {
	// Export functions to JavaScript
	js.Global().Set("BylightFindMatches", js.FuncOf(findMatches))
	js.Global().Set("BylightHighlight", js.FuncOf(highlightText))
	js.Global().Set("BylightNewCore", js.FuncOf(newCore))
	js.Global().Set("BylightMatch", js.FuncOf(match))
	js.Global().Set("BylightRender", js.FuncOf(render))
	js.Global().Set("BylightCloseCore", js.FuncOf(closeCore))
	js.Global().Set("BylightGetBuiltinSets", js.FuncOf(getBuiltinSets))

	// Keep WASM running
	<-make(chan struct{})
}
