//go:build wasm

package main

import (
	"encoding/json"
	"sync"
	"syscall/js"
	"time"

	"github.com/praetorian-inc/bylight/pkg/matcher"
	"github.com/praetorian-inc/bylight/pkg/scanner"
	"github.com/praetorian-inc/bylight/pkg/types"
)

var (
	cores   = make(map[int]*scanner.Core)
	coresMu sync.RWMutex
	nextID  int

	defaultCore     *scanner.Core
	defaultCoreOnce sync.Once
)

// coreOptions is the JSON accepted by BylightNewCore.
type coreOptions struct {
	Colors         []string `json:"colors"`
	RegexTimeoutMs int      `json:"regexTimeoutMs"`
}

func getDefaultCore() *scanner.Core {
	defaultCoreOnce.Do(func() {
		defaultCore = scanner.NewCore(scanner.CoreOptions{
			Matcher: matcher.DefaultOptions(),
			Logger:  logger,
		})
	})
	return defaultCore
}

func errorResult(msg string) map[string]any {
	return map[string]any{"error": msg}
}

// jsonResult marshals v for return to JavaScript.
func jsonResult(v any) any {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return errorResult("failed to marshal results: " + err.Error())
	}
	return string(jsonBytes)
}

// findMatches matches one pattern.
// JS: BylightFindMatches(text, pattern) -> JSON spans or error
func findMatches(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return errorResult("text and pattern arguments required")
	}

	spans, err := matcher.FindMatches(args[0].String(), args[1].String())
	if err != nil {
		return errorResult(err.Error())
	}
	if spans == nil {
		spans = []types.Span{}
	}
	return jsonResult(spans)
}

// highlightText annotates text with pattern groups using the default scheme.
// JS: BylightHighlight(text, groupsJSON, format?) -> JSON result or error
func highlightText(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return errorResult("text and groupsJSON arguments required")
	}

	var groups []types.PatternGroup
	if err := json.Unmarshal([]byte(args[1].String()), &groups); err != nil {
		return errorResult("failed to parse groups JSON: " + err.Error())
	}

	format := scanner.FormatHTML
	if len(args) > 2 {
		f, err := scanner.ParseFormat(args[2].String())
		if err != nil {
			return errorResult(err.Error())
		}
		format = f
	}

	return jsonResult(getDefaultCore().Highlight(args[0].String(), groups, format))
}

// newCore creates a core with its own color scheme and regex timeout.
// JS: BylightNewCore(optionsJSON) -> handle (int) or error
func newCore(this js.Value, args []js.Value) any {
	var opts coreOptions
	if len(args) > 0 && args[0].String() != "" {
		if err := json.Unmarshal([]byte(args[0].String()), &opts); err != nil {
			return errorResult("failed to parse options JSON: " + err.Error())
		}
	}

	mopts := matcher.DefaultOptions()
	mopts.RegexTimeout = time.Duration(opts.RegexTimeoutMs) * time.Millisecond
	core := scanner.NewCore(scanner.CoreOptions{
		Matcher: mopts,
		Colors:  opts.Colors,
		Logger:  logger,
	})

	coresMu.Lock()
	id := nextID
	nextID++
	cores[id] = core
	coresMu.Unlock()

	return map[string]any{"handle": id}
}

func lookup(handle int) (*scanner.Core, bool) {
	coresMu.RLock()
	defer coresMu.RUnlock()
	core, ok := cores[handle]
	return core, ok
}

// match evaluates several patterns.
// JS: BylightMatch(handle, text, patternsJSON) -> JSON results or error
func match(this js.Value, args []js.Value) any {
	if len(args) < 3 {
		return errorResult("handle, text and patternsJSON arguments required")
	}

	core, ok := lookup(args[0].Int())
	if !ok {
		return errorResult("invalid core handle")
	}

	var patterns []string
	if err := json.Unmarshal([]byte(args[2].String()), &patterns); err != nil {
		return errorResult("failed to parse patterns JSON: " + err.Error())
	}

	return jsonResult(core.Match(args[1].String(), patterns))
}

// render applies the bylight links of an HTML fragment.
// JS: BylightRender(handle, html) -> JSON result or error
func render(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return errorResult("handle and html arguments required")
	}

	core, ok := lookup(args[0].Int())
	if !ok {
		return errorResult("invalid core handle")
	}

	result, err := core.Render(args[1].String(), true, false)
	if err != nil {
		return errorResult("render failed: " + err.Error())
	}
	return jsonResult(result)
}

// closeCore releases a core.
// JS: BylightCloseCore(handle)
func closeCore(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errorResult("handle argument required")
	}

	handle := args[0].Int()

	coresMu.Lock()
	_, ok := cores[handle]
	delete(cores, handle)
	coresMu.Unlock()

	if !ok {
		return errorResult("invalid core handle")
	}
	return nil
}

// getBuiltinSets returns the built-in pattern sets as JSON.
// JS: BylightGetBuiltinSets() -> JSON sets array
func getBuiltinSets(this js.Value, args []js.Value) any {
	sets, err := scanner.GetBuiltinSets()
	if err != nil {
		return errorResult("failed to load builtin sets: " + err.Error())
	}
	return jsonResult(sets)
}
