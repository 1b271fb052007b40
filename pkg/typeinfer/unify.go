package typeinfer

import "github.com/corelift/pcode/pkg/pcode"

// Resolve reduces a constraint list to one Type per Varnode, picking
// among that Varnode's candidates by rank (pointer > float > largest
// integer > unknown), per SPEC_FULL §4.10.
func Resolve(cs []Constraint) map[pcode.Varnode]Type {
	result := map[pcode.Varnode]Type{}
	for _, c := range cs {
		cur, ok := result[c.Varnode]
		if !ok {
			result[c.Varnode] = c.Type
			continue
		}
		result[c.Varnode] = pickBetter(cur, c.Type)
	}
	return result
}
