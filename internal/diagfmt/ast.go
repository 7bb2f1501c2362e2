package diagfmt

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"astroid/internal/ast"
	"astroid/internal/format"
	"astroid/internal/source"
)

var errNoModule = errors.New("tree has no module")

type ASTNodeOutput struct {
	Type     string          `json:"type"`
	Field    string          `json:"field,omitempty"`
	Index    *int            `json:"index,omitempty"`
	Text     string          `json:"text,omitempty"`
	Line     int             `json:"line,omitempty"`
	FromLine int             `json:"from_line,omitempty"`
	ToLine   int             `json:"to_line,omitempty"`
	Span     source.Span     `json:"span"`
	Children []ASTNodeOutput `json:"children,omitempty"`
}

// FormatASTPretty печатает дерево модуля с отступами в стиле ├─/└─.
func FormatASTPretty(w io.Writer, tree *ast.Tree, fs *source.FileSet) error {
	if tree == nil || !tree.Root.IsValid() {
		return errNoModule
	}
	header := "Module"
	if fs != nil {
		if f := fs.Get(tree.File); f != nil {
			header = f.FormatPath("relative", fs.BaseDir())
		}
	}
	if _, err := fmt.Fprintf(w, "%s: %s\n", header, nodeLabel(tree, tree.Root)); err != nil {
		return err
	}
	return formatChildrenPretty(w, tree, tree.Root, "")
}

func formatChildrenPretty(w io.Writer, tree *ast.Tree, id ast.NodeID, prefix string) error {
	children := tree.Children(id)
	for i, c := range children {
		branch, next := "├─ ", "│  "
		if i == len(children)-1 {
			branch, next = "└─ ", "   "
		}
		if _, err := fmt.Fprintf(w, "%s%s%s: %s\n", prefix, branch, slotName(tree, id, c), nodeLabel(tree, c)); err != nil {
			return err
		}
		if err := formatChildrenPretty(w, tree, c, prefix+next); err != nil {
			return err
		}
	}
	return nil
}

// BuildASTJSON строит JSON-представление дерева без сериализации.
func BuildASTJSON(tree *ast.Tree) (ASTNodeOutput, error) {
	if tree == nil || !tree.Root.IsValid() {
		return ASTNodeOutput{}, errNoModule
	}
	return buildNodeJSON(tree, tree.Root), nil
}

func buildNodeJSON(tree *ast.Tree, id ast.NodeID) ASTNodeOutput {
	n := tree.Get(id)
	out := ASTNodeOutput{
		Type:     n.Kind.String(),
		Text:     nodeDetail(tree, id),
		Line:     n.Pos.Line,
		FromLine: n.Pos.FromLine,
		ToLine:   n.Pos.ToLine,
		Span:     n.Span,
	}
	if loc, ok := tree.LocateChild(n.Parent, id); ok {
		out.Field = loc.Field.String()
		if loc.Index >= 0 {
			idx := loc.Index
			out.Index = &idx
		}
	}
	for _, c := range tree.Children(id) {
		out.Children = append(out.Children, buildNodeJSON(tree, c))
	}
	return out
}

func FormatASTJSON(w io.Writer, tree *ast.Tree) error {
	output, err := BuildASTJSON(tree)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// slotName returns "body[2]" or "test" for child inside parent.
func slotName(tree *ast.Tree, parent, child ast.NodeID) string {
	loc, ok := tree.LocateChild(parent, child)
	if !ok {
		return "?"
	}
	if loc.Index < 0 {
		return loc.Field.String()
	}
	return fmt.Sprintf("%s[%d]", loc.Field, loc.Index)
}

// nodeDetail is the payload that is not a child node: names, operators, constants.
func nodeDetail(tree *ast.Tree, id ast.NodeID) string {
	switch tree.Kind(id) {
	case ast.KindModule:
		d, _ := tree.Module(id)
		return d.Name
	case ast.KindFunctionDef:
		d, _ := tree.FunctionDef(id)
		return tree.Str(d.Name)
	case ast.KindClassDef:
		d, _ := tree.ClassDef(id)
		return tree.Str(d.Name)
	case ast.KindName, ast.KindAssName, ast.KindDelName:
		name, _ := tree.NameOf(id)
		return name
	case ast.KindGetattr:
		d, _ := tree.Getattr(id)
		return "." + tree.Str(d.Attr)
	case ast.KindAssAttr:
		d, _ := tree.AssAttr(id)
		return "." + tree.Str(d.Attr)
	case ast.KindDelAttr:
		d, _ := tree.DelAttr(id)
		return "." + tree.Str(d.Attr)
	case ast.KindConst:
		d, _ := tree.Const(id)
		return d.Value.String()
	case ast.KindBinOp:
		d, _ := tree.BinOp(id)
		return d.Op
	case ast.KindBoolOp:
		d, _ := tree.BoolOp(id)
		return d.Op
	case ast.KindUnaryOp:
		d, _ := tree.UnaryOp(id)
		return d.Op
	case ast.KindAugAssign:
		d, _ := tree.AugAssign(id)
		return d.Op
	case ast.KindCompare:
		d, _ := tree.Compare(id)
		ops := make([]string, len(d.Ops))
		for i, op := range d.Ops {
			ops[i] = op.Op
		}
		return strings.Join(ops, " ")
	case ast.KindKeyword:
		d, _ := tree.Keyword(id)
		return tree.Str(d.Arg)
	case ast.KindArguments:
		return "(" + format.Expr(tree, id) + ")"
	case ast.KindImport, ast.KindFrom, ast.KindGlobal:
		return format.Expr(tree, id)
	}
	return ""
}
