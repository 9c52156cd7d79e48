package driver

import "midend/internal/mir"

// RenumberAddresses assigns the sequential Address field used by the
// textual printer (spec.md §6's `[addr:NNNN]` prefix). It runs once,
// after all structural edits are complete, exactly as spec.md §4.10
// requires: UniqueID never changes, Address is purely a presentation
// concern recomputed from final instruction order.
func RenumberAddresses(insts []*mir.Inst) {
	for i, inst := range insts {
		inst.Address = i
	}
}
