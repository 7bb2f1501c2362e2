package diagfmt

import (
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"

	"astroid/internal/ast"
	"astroid/internal/source"
)

// treeRow is one output line; lines is empty for field headers.
type treeRow struct {
	text  string
	lines string
}

const maxTreeColumn = 60

// FormatASTTree печатает дерево, сгруппированное по полям:
//
//	body:
//	- Assign                  line 1
//	  value: Const 1          line 1
//
// Line ranges are aligned in one display column (labels may hold wide runes).
func FormatASTTree(w io.Writer, tree *ast.Tree, fs *source.FileSet) error {
	if tree == nil || !tree.Root.IsValid() {
		return errNoModule
	}
	head := kindDetail(tree, tree.Root)
	if fs != nil {
		if f := fs.Get(tree.File); f != nil {
			head = f.FormatPath("relative", fs.BaseDir()) + ": " + head
		}
	}
	rows := []treeRow{{text: head, lines: lineRange(tree, tree.Root)}}
	rows = appendFields(rows, tree, tree.Root, "  ")

	col := 0
	for _, r := range rows {
		if r.lines != "" {
			col = max(col, runewidth.StringWidth(r.text))
		}
	}
	col = min(col, maxTreeColumn) + 2
	for _, r := range rows {
		line := r.text
		if r.lines != "" {
			line = runewidth.FillRight(line, col) + r.lines
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// appendFields adds the children of id, one group per field. Single-node
// fields sit on one line; sequence fields get a header and "- " items.
func appendFields(rows []treeRow, tree *ast.Tree, id ast.NodeID, indent string) []treeRow {
	kids := tree.Children(id)
	for i := 0; i < len(kids); {
		loc, _ := tree.LocateChild(id, kids[i])
		if loc.Index < 0 {
			rows = append(rows, treeRow{text: indent + loc.Field.String() + ": " + kindDetail(tree, kids[i]), lines: lineRange(tree, kids[i])})
			rows = appendFields(rows, tree, kids[i], indent+"  ")
			i++
			continue
		}
		rows = append(rows, treeRow{text: indent + loc.Field.String() + ":"})
		for ; i < len(kids); i++ {
			item, _ := tree.LocateChild(id, kids[i])
			if item.Field != loc.Field || item.Index < 0 {
				break
			}
			rows = append(rows, treeRow{text: indent + "- " + kindDetail(tree, kids[i]), lines: lineRange(tree, kids[i])})
			rows = appendFields(rows, tree, kids[i], indent+"  ")
		}
	}
	return rows
}

func kindDetail(tree *ast.Tree, id ast.NodeID) string {
	if detail := nodeDetail(tree, id); detail != "" {
		return tree.Kind(id).String() + " " + detail
	}
	return tree.Kind(id).String()
}

func lineRange(tree *ast.Tree, id ast.NodeID) string {
	pos := tree.Pos(id)
	if pos.FromLine == pos.ToLine {
		return fmt.Sprintf("line %d", pos.FromLine)
	}
	return fmt.Sprintf("lines %d-%d", pos.FromLine, pos.ToLine)
}

// nodeLabel is kindDetail followed by the line range in parentheses.
func nodeLabel(tree *ast.Tree, id ast.NodeID) string {
	return kindDetail(tree, id) + " (" + lineRange(tree, id) + ")"
}
