// Package ast defines the typed expression tree produced by the Nessie
// front end. The tree is strictly owned: every composite node holds its
// children exclusively, there are no back references, and the only change
// after construction is the one-time type annotation made by the checker.
package ast

import (
	"fmt"

	"github.com/nessie-lang/nessie/token"
	"github.com/nessie-lang/nessie/types"
)

// Program is a whole compilation unit.
type Program struct {
	Body *Expr
}

// Expr is an expression node.
type Expr struct {
	Kind ExprKind
	Span token.Span

	ty    types.Type
	typed bool
}

// ExprKind is the variant of an expression node.
type ExprKind interface {
	exprKind() // marker method
}

// Int is an integer literal.
type Int struct {
	Value int32
}

// True is the boolean literal true.
type True struct{}

// False is the boolean literal false.
type False struct{}

// Binary applies a binary operator to two operands.
type Binary struct {
	Op    BinaryOp
	Left  *Expr
	Right *Expr
}

// Unary applies a unary operator to one operand.
type Unary struct {
	Op      UnaryOp
	Operand *Expr
}

// Paren is an expression wrapped in parentheses.
type Paren struct {
	Inner *Expr
}

func (Int) exprKind()    {}
func (True) exprKind()   {}
func (False) exprKind()  {}
func (Binary) exprKind() {}
func (Unary) exprKind()  {}
func (Paren) exprKind()  {}

// NewInt returns an integer literal node.
func NewInt(v int32, span token.Span) *Expr {
	return &Expr{Kind: Int{Value: v}, Span: span}
}

// NewBool returns a true or false literal node.
func NewBool(b bool, span token.Span) *Expr {
	if b {
		return &Expr{Kind: True{}, Span: span}
	}
	return &Expr{Kind: False{}, Span: span}
}

// NewBinary returns a binary node spanning both operands.
func NewBinary(op BinaryOp, left, right *Expr) *Expr {
	return &Expr{Kind: Binary{Op: op, Left: left, Right: right}, Span: left.Span.Join(right.Span)}
}

// NewUnary returns a unary node. span covers the operator and the operand.
func NewUnary(op UnaryOp, operand *Expr, span token.Span) *Expr {
	return &Expr{Kind: Unary{Op: op, Operand: operand}, Span: span}
}

// NewParen returns a parenthesized node. span includes the parentheses.
func NewParen(inner *Expr, span token.Span) *Expr {
	return &Expr{Kind: Paren{Inner: inner}, Span: span}
}

// Type returns the resolved type. ok is false before type checking.
func (e *Expr) Type() (t types.Type, ok bool) {
	return e.ty, e.typed
}

// Annotate records the resolved type. A node is annotated once; a second
// call is a checker bug and panics.
func (e *Expr) Annotate(t types.Type) {
	if e.typed {
		panic(fmt.Sprintf("ast: expression at %s already has type %s", e.Span, e.ty))
	}
	e.ty = t
	e.typed = true
}

// Children returns the direct sub-expressions in source order.
func (e *Expr) Children() []*Expr {
	switch k := e.Kind.(type) {
	case Binary:
		return []*Expr{k.Left, k.Right}
	case Unary:
		return []*Expr{k.Operand}
	case Paren:
		return []*Expr{k.Inner}
	default:
		return nil
	}
}

// Walk traverses the tree rooted at e in pre-order. If fn returns false the
// children of that node are skipped.
func Walk(e *Expr, fn func(*Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	for _, child := range e.Children() {
		Walk(child, fn)
	}
}

// String renders the expression as an s-expression, e.g. "(+ 1 (- 2))".
func (e *Expr) String() string {
	switch k := e.Kind.(type) {
	case Int:
		return fmt.Sprintf("%d", k.Value)
	case True:
		return "true"
	case False:
		return "false"
	case Binary:
		return fmt.Sprintf("(%s %s %s)", k.Op, k.Left, k.Right)
	case Unary:
		return fmt.Sprintf("(%s %s)", k.Op, k.Operand)
	case Paren:
		return fmt.Sprintf("(group %s)", k.Inner)
	default:
		return fmt.Sprintf("<unknown %T>", e.Kind)
	}
}

// ---------------------------------------------------------------------------
// Operators
// ---------------------------------------------------------------------------

// BinaryOp is a binary operator.
type BinaryOp uint8

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Mod
	And
	Or
	Xor
)

var binaryOpNames = [...]string{
	Add: "+",
	Sub: "-",
	Mul: "*",
	Div: "/",
	Mod: "%",
	And: "and",
	Or:  "or",
	Xor: "xor",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return fmt.Sprintf("BinaryOp(%d)", uint8(op))
}

// IsLogical reports whether op works on booleans rather than integers.
func (op BinaryOp) IsLogical() bool {
	return op == And || op == Or || op == Xor
}

// UnaryOp is a unary operator.
type UnaryOp uint8

const (
	Neg UnaryOp = iota
	Not
)

func (op UnaryOp) String() string {
	switch op {
	case Neg:
		return "-"
	case Not:
		return "not"
	default:
		return fmt.Sprintf("UnaryOp(%d)", uint8(op))
	}
}

// ---------------------------------------------------------------------------
// Type expressions
// ---------------------------------------------------------------------------

// TypeExprKind names a type written in source.
type TypeExprKind uint8

const (
	TypeInt TypeExprKind = iota
	TypeBool
)

// TypeExpr is a type annotation as written in source.
type TypeExpr struct {
	Kind TypeExprKind
	Span token.Span
}

// Resolve returns the type the annotation denotes.
func (t TypeExpr) Resolve() types.Type {
	switch t.Kind {
	case TypeInt:
		return types.Int
	case TypeBool:
		return types.Bool
	}
	panic(fmt.Sprintf("ast: unknown type expression kind %d", t.Kind))
}
