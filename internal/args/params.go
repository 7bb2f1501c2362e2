package args

import "astroid/internal/ast"

type ParamKind uint8

const (
	Positional ParamKind = iota
	Vararg
	Kwarg
)

func (k ParamKind) String() string {
	switch k {
	case Vararg:
		return "vararg"
	case Kwarg:
		return "kwarg"
	}
	return "positional"
}

// Param is one flattened parameter. Names bound by an unpacking parameter
// share its Index and have no default.
type Param struct {
	Name    string
	Kind    ParamKind
	Index   int
	Node    ast.NodeID
	Default ast.NodeID
}

// Params lists every name the signature binds, in declaration order.
func Params(t *ast.Tree, argsID ast.NodeID) []Param {
	d, ok := t.ArgumentsOf(argsID)
	if !ok {
		return nil
	}
	var out []Param
	if !d.Opaque {
		offset := len(d.Args) - len(d.Defaults)
		for i, arg := range d.Args {
			if _, isTuple := t.Tuple(arg); isTuple {
				for _, n := range t.NodesOfKind(arg, ast.KindAssName) {
					name, _ := t.NameOf(n)
					out = append(out, Param{Name: name, Index: i, Node: n})
				}
				continue
			}
			name, _ := t.NameOf(arg)
			p := Param{Name: name, Index: i, Node: arg}
			if i >= offset {
				p.Default = d.Defaults[i-offset]
			}
			out = append(out, p)
		}
	}
	if v := t.Str(d.Vararg); v != "" {
		out = append(out, Param{Name: v, Kind: Vararg, Index: -1})
	}
	if k := t.Str(d.Kwarg); k != "" {
		out = append(out, Param{Name: k, Kind: Kwarg, Index: -1})
	}
	return out
}
