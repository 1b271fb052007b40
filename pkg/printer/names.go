// Package printer renders a structure tree (package structural) and its
// underlying P-code ops into linear C-like pseudocode text (SPEC_FULL
// §4.13 / C13).
package printer

import (
	"fmt"

	"github.com/corelift/pcode/pkg/pcode"
)

// VarName renders v's display name from its (space, offset) identity:
// "r<offset>" for registers, "stack_<offset>" for stack slots,
// "tmp_<n>" for uniques, "ptr_0x<offset>" for RAM addresses, and the
// literal value for a constant.
func VarName(v pcode.Varnode) string {
	switch v.Space {
	case pcode.SpaceConst:
		return fmt.Sprintf("0x%x", v.Offset)
	case pcode.SpaceRegister:
		return fmt.Sprintf("r%d", v.Offset)
	case pcode.SpaceStack:
		return fmt.Sprintf("stack_%d", int64(v.Offset))
	case pcode.SpaceUnique:
		return fmt.Sprintf("tmp_%d", v.Offset)
	case pcode.SpaceRAM:
		return fmt.Sprintf("ptr_0x%x", v.Offset)
	default:
		return fmt.Sprintf("v_%d_%d", v.Space, v.Offset)
	}
}
