package weft

// place is the ephemeral context of one render call: the tree scope,
// the placement kind, the enclosing content, a lazy view of the prior
// content, and the commit callback that decides reuse versus replace.
// It is reconstructed on every render call, never persisted.
type place struct {
	root   *Root
	kind   Kind
	parent Content
	prior  func() Content
	update func(next Content) error

	// pendingUndos collects hooks registered via Handle.OnUndo during
	// this render's Action evaluation; commit attaches them to the
	// resulting content's cell.
	pendingUndos []func()
}

// The active place and handle are process-wide but strictly call-stack
// scoped: saved before and restored after every Action invocation, on
// all exit paths. Renders never run concurrently (see package doc), so
// no locking guards them.
var (
	currentPlace  *place
	currentHandle *Handle
)

// activePlace returns the place of the render call currently evaluating
// an Action, or nil outside evaluation.
func activePlace() *place {
	return currentPlace
}

// Handle is the per-call extension surface exposed to Actions while
// they evaluate.
type Handle struct {
	place *place
	value any
}

// CurrentHandle returns the handle of the Action currently evaluating,
// or nil outside Action evaluation. Actions that need it must capture
// it during evaluation; it is not valid to stash the ambient pointer
// for later.
func CurrentHandle() *Handle {
	return currentHandle
}

// Repeat re-invokes this exact render against the same place with the
// same value. Re-rendering with unchanged values patches in place and
// creates no new nodes, so external mutation sources may call it
// whenever their inputs change.
func (h *Handle) Repeat() error {
	return renderAt(h.place, h.value)
}

// OnUndo registers a cleanup hook that fires exactly once,
// synchronously, immediately before this Action's content is detached
// or replaced. Only element placement has a teardown; hooks registered
// while an attribute or tag value resolves are discarded.
func (h *Handle) OnUndo(fn func()) {
	h.place.pendingUndos = append(h.place.pendingUndos, fn)
}

// invoke evaluates an Action inside its place, saving and restoring the
// ambient place/handle so nested render calls stack correctly and a
// failed render cannot corrupt a sibling's context.
func invoke(p *place, h *Handle, act Action) any {
	savedPlace, savedHandle := currentPlace, currentHandle
	currentPlace, currentHandle = p, h
	defer func() {
		currentPlace, currentHandle = savedPlace, savedHandle
	}()
	return act()
}
