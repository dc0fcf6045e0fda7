package weft

import "sync"

// templates is the process-lifetime compiled-template cache, keyed by
// literal-segment identity (the *Parts pointer). Compilation cost is
// paid once per call site and amortized over the template's lifetime.
var (
	templateMu sync.RWMutex
	templates  = make(map[*Parts]*Template)
)

// templateFor returns the compiled Template for p, compiling on first
// use.
func templateFor(p *Parts) (*Template, error) {
	templateMu.RLock()
	tpl := templates[p]
	templateMu.RUnlock()
	if tpl != nil {
		recordCacheHit()
		return tpl, nil
	}

	templateMu.Lock()
	defer templateMu.Unlock()
	if tpl = templates[p]; tpl != nil {
		recordCacheHit()
		return tpl, nil
	}
	tpl, err := compile(p)
	if err != nil {
		return nil, err
	}
	templates[p] = tpl
	recordCompile()
	return tpl, nil
}

// ResetTemplateCache drops every compiled template. Mounted instances
// keep their (now uncached) Template reference, so a later render of
// the same Parts recompiles and replaces rather than patches. Intended
// for tests.
func ResetTemplateCache() {
	templateMu.Lock()
	templates = make(map[*Parts]*Template)
	templateMu.Unlock()
}
