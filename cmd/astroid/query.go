package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"astroid/internal/args"
	"astroid/internal/ast"
	"astroid/internal/diag"
	"astroid/internal/driver"
	"astroid/internal/flow"
	"astroid/internal/format"
	"astroid/internal/infer"
	"astroid/internal/literal"
	"astroid/internal/source"
	"astroid/internal/trace"
)

var blockRangeCmd = &cobra.Command{
	Use:   "blockrange <file.py> <line>",
	Short: "Print the line range of the block containing a line",
	Long: `Find the innermost if/for/while/try/with statement whose extent contains
the line and print the range of the clause the line belongs to.`,
	Args: cobra.ExactArgs(2),
	RunE: runBlockRange,
}

var exclusiveCmd = &cobra.Command{
	Use:   "exclusive <file.py> <line1> <line2>",
	Short: "Tell whether two statements can never both execute",
	Args:  cobra.ExactArgs(3),
	RunE:  runExclusive,
}

var argsCmd = &cobra.Command{
	Use:   "args <file.py> <function>",
	Short: "Print a function signature and its parameter defaults",
	Long: `Print the parameter list of a function the way it appears in its def,
followed by one line per parameter. Methods are addressed as Class.method.`,
	Args: cobra.ExactArgs(2),
	RunE: runArgs,
}

var unpackCmd = &cobra.Command{
	Use:   "unpack <file.py> <line>",
	Short: "Flatten the value assigned on a line",
	Args:  cobra.ExactArgs(2),
	RunE:  runUnpack,
}

var getitemCmd = &cobra.Command{
	Use:   "getitem <file.py> <line> <key>",
	Short: "Subscript the literal assigned on a line",
	Long: `Evaluate value[key] for the literal assigned on the line. A key that
parses as an integer indexes sequences and strings; any other key is a string
looked up among dict keys.`,
	Args: cobra.ExactArgs(3),
	RunE: runGetitem,
}

func init() {
	exclusiveCmd.Flags().StringSlice("exceptions", nil, "exception names treated as handled (default: analysis.exceptions from astroid.toml)")
	unpackCmd.Flags().Bool("types", false, "append the builtin type of each literal value")
}

// queryModule - разобранный модуль для одиночного запроса.
type queryModule struct {
	env  *cliEnv
	fs   *source.FileSet
	res  *driver.FileResult
	tree *ast.Tree
}

func loadQueryModule(cmd *cobra.Command, path string) (*queryModule, error) {
	env, err := readEnv(cmd)
	if err != nil {
		return nil, err
	}
	opts, err := env.driverOptions(false)
	if err != nil {
		return nil, err
	}
	fs, res, err := driver.Parse(cmd.Context(), path, opts)
	if err != nil {
		return nil, err
	}
	// синтаксические ошибки не мешают запросу: дерево частичное
	printDiagnostics(cmd.ErrOrStderr(), env, fs, res.Bag)
	if res.Tree == nil {
		return nil, errHasErrors
	}
	trace.Mark(cmd.Context(), trace.ScopeNode, cmd.Name(), fmt.Sprintf("%s (%d nodes)", path, res.Tree.Nodes.Len()))
	return &queryModule{env: env, fs: fs, res: res, tree: res.Tree}, nil
}

// fail reports a single query diagnostic and returns the command error.
func (q *queryModule) fail(cmd *cobra.Command, code diag.Code, line int, msg string) error {
	bag := diag.NewBag(1)
	bag.Add(diag.NewError(code, q.fs.Get(q.res.FileID).LineSpan(line), msg))
	printDiagnostics(cmd.ErrOrStderr(), q.env, q.fs, bag)
	return errHasErrors
}

func parseLine(value string) (int, error) {
	line, err := strconv.Atoi(value)
	if err != nil || line < 1 {
		return 0, fmt.Errorf("invalid line number %q", value)
	}
	return line, nil
}

func runBlockRange(cmd *cobra.Command, argv []string) error {
	line, err := parseLine(argv[1])
	if err != nil {
		return err
	}
	q, err := loadQueryModule(cmd, argv[0])
	if err != nil {
		return err
	}
	t := q.tree
	block := t.InnermostBlockAt(t.Root, line)
	if !block.IsValid() {
		return q.fail(cmd, diag.AnaNoBlockAtLine, line, fmt.Sprintf("no block contains line %d", line))
	}
	from, to := flow.BlockRange(t, block, line)
	fmt.Fprintf(cmd.OutOrStdout(), "%s at line %d: %d-%d\n", t.Kind(block), t.Pos(block).Line, from, to)
	return nil
}

func runExclusive(cmd *cobra.Command, argv []string) error {
	line1, err := parseLine(argv[1])
	if err != nil {
		return err
	}
	line2, err := parseLine(argv[2])
	if err != nil {
		return err
	}
	exceptions, err := cmd.Flags().GetStringSlice("exceptions")
	if err != nil {
		return fmt.Errorf("failed to get exceptions flag: %w", err)
	}
	q, err := loadQueryModule(cmd, argv[0])
	if err != nil {
		return err
	}
	t := q.tree
	var stmts [2]ast.NodeID
	for i, line := range []int{line1, line2} {
		stmts[i] = t.StatementAt(t.Root, line)
		if !stmts[i].IsValid() {
			return q.fail(cmd, diag.AnaNoStatementAtLine, line, fmt.Sprintf("no statement starts at line %d", line))
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), flow.AreExclusive(t, stmts[0], stmts[1], q.env.exceptions(exceptions)))
	return nil
}

func runArgs(cmd *cobra.Command, argv []string) error {
	q, err := loadQueryModule(cmd, argv[0])
	if err != nil {
		return err
	}
	t := q.tree
	fn, ok := findFunction(t, argv[1])
	if !ok {
		return q.fail(cmd, diag.AnaUnknownFunction, 1, fmt.Sprintf("no function named %q", argv[1]))
	}
	d, _ := t.FunctionDef(fn)
	render := func(t *ast.Tree, id ast.NodeID) string { return format.Expr(t, id) }

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "def %s(%s)\n", qualName(t, fn), args.FormatArgs(t, d.Args, render))
	for _, p := range args.Params(t, d.Args) {
		switch {
		case p.Kind == args.Vararg:
			fmt.Fprintf(out, "  *%s\n", p.Name)
		case p.Kind == args.Kwarg:
			fmt.Fprintf(out, "  **%s\n", p.Name)
		case p.Default.IsValid():
			fmt.Fprintf(out, "  %s (#%d) = %s\n", p.Name, p.Index, format.Expr(t, p.Default))
		default:
			fmt.Fprintf(out, "  %s (#%d)\n", p.Name, p.Index)
		}
	}
	return nil
}

// findFunction ищет def по имени; "C.m" адресует метод класса C.
func findFunction(t *ast.Tree, name string) (ast.NodeID, bool) {
	for _, id := range t.NodesOfKind(t.Root, ast.KindFunctionDef) {
		if qualName(t, id) == name {
			return id, true
		}
	}
	return ast.NoNodeID, false
}

// qualName joins the names of the enclosing classes and functions of id.
func qualName(t *ast.Tree, id ast.NodeID) string {
	var parts []string
	for id.IsValid() {
		switch t.Kind(id) {
		case ast.KindFunctionDef:
			d, _ := t.FunctionDef(id)
			parts = append(parts, t.Str(d.Name))
		case ast.KindClassDef:
			d, _ := t.ClassDef(id)
			parts = append(parts, t.Str(d.Name))
		case ast.KindModule:
			id = ast.NoNodeID
			continue
		}
		id = t.Frame(t.Parent(id))
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

func runUnpack(cmd *cobra.Command, argv []string) error {
	line, err := parseLine(argv[1])
	if err != nil {
		return err
	}
	q, err := loadQueryModule(cmd, argv[0])
	if err != nil {
		return err
	}
	t := q.tree
	assign, ok := assignAt(t, line)
	if !ok {
		return q.fail(cmd, diag.AnaNoStatementAtLine, line, fmt.Sprintf("no assignment at line %d", line))
	}
	values, err := infer.UnpackInfer(infer.NewContext(), infer.Literal{}, infer.Of(t, assign.Value))
	if err != nil {
		if errors.Is(err, infer.ErrInferenceFailed) || errors.Is(err, infer.ErrNotFound) {
			return q.fail(cmd, diag.AnaInferenceFailed, line, err.Error())
		}
		return err
	}
	withTypes, err := cmd.Flags().GetBool("types")
	if err != nil {
		return fmt.Errorf("failed to get types flag: %w", err)
	}
	out := cmd.OutOrStdout()
	for _, v := range values {
		if v.IsUnknown() {
			fmt.Fprintln(out, "Unknown")
			continue
		}
		text := format.Expr(v.Tree, v.Node)
		if pytype := literal.Pytype(v.Tree, v.Node); withTypes && pytype != "" {
			text += "  # " + pytype
		}
		fmt.Fprintln(out, text)
	}
	return nil
}

func runGetitem(cmd *cobra.Command, argv []string) error {
	line, err := parseLine(argv[1])
	if err != nil {
		return err
	}
	q, err := loadQueryModule(cmd, argv[0])
	if err != nil {
		return err
	}
	t := q.tree
	assign, ok := assignAt(t, line)
	if !ok {
		return q.fail(cmd, diag.AnaNoStatementAtLine, line, fmt.Sprintf("no assignment at line %d", line))
	}
	eng := infer.Literal{}
	ictx := infer.NewContext()
	vals, err := eng.Infer(ictx, infer.Of(t, assign.Value))
	if err != nil {
		return q.fail(cmd, diag.AnaInferenceFailed, line, err.Error())
	}
	if len(vals) == 0 || vals[0].IsUnknown() {
		return q.fail(cmd, diag.AnaInferenceFailed, line, "value is not a literal")
	}

	key := ast.StrValue(strings.Trim(argv[2], `"'`))
	if n, err := strconv.ParseInt(argv[2], 10, 64); err == nil {
		key = ast.IntValue(n)
	}
	v := vals[0]
	elem, err := literal.Getitem(ictx, eng, v.Tree, v.Node, key)
	if err != nil {
		return q.fail(cmd, diag.AnaInferenceFailed, line, err.Error())
	}
	if elem.IsNode() {
		fmt.Fprintln(cmd.OutOrStdout(), format.Expr(v.Tree, elem.Node))
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "'%s'\n", elem.Text)
	}
	return nil
}

// assignAt returns the first assignment whose own line is line.
func assignAt(t *ast.Tree, line int) (*ast.AssignData, bool) {
	for _, id := range t.NodesOfKind(t.Root, ast.KindAssign) {
		if t.Pos(id).Line == line {
			return t.Assign(id)
		}
	}
	return nil, false
}
