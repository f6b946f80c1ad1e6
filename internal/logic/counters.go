package logic

import "sync/atomic"

// variableIndex is the process-wide monotonic counter backing the
// renamer and the auxiliary/anonymous variable generators (spec §5),
// mirroring original_source/modus-lib/src/logic.rs's
// AVAILABLE_VARIABLE_INDEX atomic counter.
var variableIndex uint64

// NextVariableID returns a fresh, process-wide unique id.
func NextVariableID() uint64 {
	return atomic.AddUint64(&variableIndex, 1)
}

// ResetVariableCounter resets the global variable-id counter. Test
// harnesses only (spec §5); never call this from production code paths.
func ResetVariableCounter() {
	atomic.StoreUint64(&variableIndex, 0)
}

// pairIDCounter is the process-wide monotonic counter stamped on each
// _operator_X_begin/_operator_X_end marker pair (spec §4.3).
var pairIDCounter uint64

// NextPairID returns a fresh, process-wide unique operator pair id.
func NextPairID() uint64 {
	return atomic.AddUint64(&pairIDCounter, 1)
}

// ResetPairIDCounter resets the global pair-id counter. Test harnesses
// only.
func ResetPairIDCounter() {
	atomic.StoreUint64(&pairIDCounter, 0)
}

// NewAuxiliaryVariable allocates a fresh AuxiliaryVariable term.
func NewAuxiliaryVariable() AuxiliaryVariable {
	return AuxiliaryVariable{ID: NextVariableID()}
}

// NewAnonymousVariable allocates a fresh AnonymousVariable term.
func NewAnonymousVariable() AnonymousVariable {
	return AnonymousVariable{ID: NextVariableID()}
}

// Rename produces a fresh RenamedVariable wrapping t, used whenever a
// program clause is selected for resolution so that recursive calls never
// capture each other's variables (spec §4.4 step 1).
func Rename(t Term) Term {
	return RenamedVariable{ID: NextVariableID(), Inner: t}
}
