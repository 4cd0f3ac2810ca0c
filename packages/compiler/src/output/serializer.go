package output

import (
	"fmt"
	"math"
	"strconv"

	"gxt-go/packages/compiler/src/util"
)

// Serializer turns a JSExpression tree into JavaScript text, driving a
// CodeEmitter so that every node with provenance lands in the mapping tree
type Serializer struct {
	emitter               *CodeEmitter
	escapeDollarInStrings bool
}

// NewSerializer creates a Serializer writing into emitter
func NewSerializer(emitter *CodeEmitter, escapeDollarInStrings bool) *Serializer {
	return &Serializer{emitter: emitter, escapeDollarInStrings: escapeDollarInStrings}
}

// Serialize writes expr
func (s *Serializer) Serialize(expr JSExpression) {
	if expr == nil {
		s.emitter.Emit("undefined")
		return
	}
	expr.VisitExpression(s, nil)
}

// Serialize renders expr on its own, discarding mappings
func Serialize(expr JSExpression) string {
	emitter := NewCodeEmitter(nil, "")
	NewSerializer(emitter, false).Serialize(expr)
	return emitter.Code()
}

// scoped brackets a composite node in a mapping subtree when it carries provenance
func (s *Serializer) scoped(prov *Provenance, body func()) {
	if prov.SourceSpan == nil && prov.SourceKind == "" {
		body()
		return
	}
	s.emitter.PushScope(prov.SourceSpan, prov.SourceKind, prov.Name)
	body()
	s.emitter.PopScope()
}

func (s *Serializer) leaf(prov *Provenance, text string) {
	s.emitter.EmitMapped(text, prov.SourceSpan, prov.SourceKind, prov.Name)
}

func (s *Serializer) list(exprs []JSExpression) {
	for i, expr := range exprs {
		if i > 0 {
			s.emitter.Emit(", ")
		}
		s.Serialize(expr)
	}
}

func (s *Serializer) params(names []string) {
	s.emitter.Emit("(")
	for i, name := range names {
		if i > 0 {
			s.emitter.Emit(", ")
		}
		s.emitter.Emit(name)
	}
	s.emitter.Emit(")")
}

// arrowBody wraps object literals in parentheses so they are not read as a block
func (s *Serializer) arrowBody(body JSExpression) {
	if _, ok := body.(*ObjectExpr); ok {
		s.emitter.Emit("(")
		s.Serialize(body)
		s.emitter.Emit(")")
		return
	}
	s.Serialize(body)
}

// VisitLiteralExpr implements ExpressionVisitor
func (s *Serializer) VisitLiteralExpr(expr *LiteralExpr, context interface{}) interface{} {
	s.leaf(&expr.Provenance, s.literal(expr))
	return nil
}

func (s *Serializer) literal(expr *LiteralExpr) string {
	if expr.Undefined {
		return "undefined"
	}
	switch v := expr.Value.(type) {
	case nil:
		return "null"
	case string:
		return util.EscapeString(v, s.escapeDollarInStrings)
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case float64:
		return formatNumber(v)
	default:
		panic(fmt.Sprintf("unsupported literal type %T", v))
	}
}

func formatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// VisitIdentifierExpr implements ExpressionVisitor
func (s *Serializer) VisitIdentifierExpr(expr *IdentifierExpr, context interface{}) interface{} {
	s.leaf(&expr.Provenance, expr.Name)
	return nil
}

// VisitMemberExpr implements ExpressionVisitor
func (s *Serializer) VisitMemberExpr(expr *MemberExpr, context interface{}) interface{} {
	s.scoped(&expr.Provenance, func() {
		s.Serialize(expr.Object)
		if expr.Index != nil {
			if expr.Optional {
				s.emitter.Emit("?.")
			}
			s.emitter.Emit("[")
			s.Serialize(expr.Index)
			s.emitter.Emit("]")
			return
		}
		if !util.IsLegalPropertyName(expr.Property) {
			if expr.Optional {
				s.emitter.Emit("?.")
			}
			s.emitter.Emit("[" + util.EscapeString(expr.Property, s.escapeDollarInStrings) + "]")
			return
		}
		if expr.Optional {
			s.emitter.Emit("?.")
		} else {
			s.emitter.Emit(".")
		}
		s.emitter.Emit(expr.Property)
	})
	return nil
}

// VisitCallExpr implements ExpressionVisitor
func (s *Serializer) VisitCallExpr(expr *CallExpr, context interface{}) interface{} {
	s.scoped(&expr.Provenance, func() {
		if _, ok := expr.Callee.(*ArrowExpr); ok {
			s.emitter.Emit("(")
			s.Serialize(expr.Callee)
			s.emitter.Emit(")")
		} else {
			s.Serialize(expr.Callee)
		}
		s.emitter.Emit("(")
		s.list(expr.Args)
		s.emitter.Emit(")")
	})
	return nil
}

// VisitMethodCallExpr implements ExpressionVisitor
func (s *Serializer) VisitMethodCallExpr(expr *MethodCallExpr, context interface{}) interface{} {
	s.scoped(&expr.Provenance, func() {
		s.Serialize(expr.Receiver)
		s.emitter.Emit("." + expr.Method + "(")
		s.list(expr.Args)
		s.emitter.Emit(")")
	})
	return nil
}

// VisitArrowExpr implements ExpressionVisitor
func (s *Serializer) VisitArrowExpr(expr *ArrowExpr, context interface{}) interface{} {
	s.scoped(&expr.Provenance, func() {
		s.params(expr.Params)
		s.emitter.Emit(" => ")
		s.arrowBody(expr.Body)
	})
	return nil
}

// VisitArrayExpr implements ExpressionVisitor
func (s *Serializer) VisitArrayExpr(expr *ArrayExpr, context interface{}) interface{} {
	s.scoped(&expr.Provenance, func() {
		s.emitter.Emit("[")
		s.list(expr.Elements)
		s.emitter.Emit("]")
	})
	return nil
}

// VisitObjectExpr implements ExpressionVisitor
func (s *Serializer) VisitObjectExpr(expr *ObjectExpr, context interface{}) interface{} {
	s.scoped(&expr.Provenance, func() {
		if len(expr.Props) == 0 {
			s.emitter.Emit("{}")
			return
		}
		s.emitter.Emit("{ ")
		for i, prop := range expr.Props {
			if i > 0 {
				s.emitter.Emit(", ")
			}
			s.scoped(&prop.Provenance, func() {
				key := prop.Key
				if !util.IsLegalPropertyName(key) {
					key = util.EscapeString(key, s.escapeDollarInStrings)
				}
				s.emitter.Emit(key + ": ")
				s.Serialize(prop.Value)
			})
		}
		s.emitter.Emit(" }")
	})
	return nil
}

// VisitSpreadExpr implements ExpressionVisitor
func (s *Serializer) VisitSpreadExpr(expr *SpreadExpr, context interface{}) interface{} {
	s.scoped(&expr.Provenance, func() {
		s.emitter.Emit("...")
		s.Serialize(expr.Value)
	})
	return nil
}

// VisitRawExpr implements ExpressionVisitor
func (s *Serializer) VisitRawExpr(expr *RawExpr, context interface{}) interface{} {
	s.leaf(&expr.Provenance, expr.Code)
	return nil
}

// VisitRuntimeRefExpr implements ExpressionVisitor
func (s *Serializer) VisitRuntimeRefExpr(expr *RuntimeRefExpr, context interface{}) interface{} {
	s.leaf(&expr.Provenance, expr.Symbol)
	return nil
}

// VisitReactiveGetterExpr implements ExpressionVisitor
func (s *Serializer) VisitReactiveGetterExpr(expr *ReactiveGetterExpr, context interface{}) interface{} {
	s.scoped(&expr.Provenance, func() {
		s.emitter.Emit("() => ")
		s.arrowBody(expr.Value)
	})
	return nil
}

// VisitMethodBindingExpr implements ExpressionVisitor
func (s *Serializer) VisitMethodBindingExpr(expr *MethodBindingExpr, context interface{}) interface{} {
	s.scoped(&expr.Provenance, func() {
		s.params(expr.Params)
		s.emitter.Emit(" => ")
		s.Serialize(expr.Receiver)
		s.emitter.Emit("." + expr.Method + "(")
		for i, name := range expr.Params {
			if i > 0 {
				s.emitter.Emit(", ")
			}
			s.emitter.Emit(name)
		}
		for i, arg := range expr.Args {
			if i > 0 || len(expr.Params) > 0 {
				s.emitter.Emit(", ")
			}
			s.Serialize(arg)
		}
		s.emitter.Emit(")")
	})
	return nil
}

// VisitIIFEExpr implements ExpressionVisitor
func (s *Serializer) VisitIIFEExpr(expr *IIFEExpr, context interface{}) interface{} {
	s.scoped(&expr.Provenance, func() {
		s.emitter.Emit("(() => {")
		for _, stmt := range expr.Statements {
			s.emitter.Emit(" ")
			stmt.VisitStatement(s, nil)
		}
		s.emitter.Emit(" })()")
	})
	return nil
}

// VisitFunctionExpr implements ExpressionVisitor
func (s *Serializer) VisitFunctionExpr(expr *FunctionExpr, context interface{}) interface{} {
	s.scoped(&expr.Provenance, func() {
		s.emitter.Emit("function ")
		s.params(expr.Params)
		s.emitter.Emit(" {")
		s.emitter.IncIndent()
		for _, stmt := range expr.Statements {
			s.emitter.Newline()
			stmt.VisitStatement(s, nil)
		}
		s.emitter.DecIndent()
		s.emitter.Newline()
		s.emitter.Emit("}")
	})
	return nil
}

// VisitDeclareVarStmt implements StatementVisitor
func (s *Serializer) VisitDeclareVarStmt(stmt *DeclareVarStmt, context interface{}) interface{} {
	s.scoped(&stmt.Provenance, func() {
		keyword := "const "
		if stmt.Mutable {
			keyword = "let "
		}
		s.emitter.Emit(keyword + stmt.Name + " = ")
		s.Serialize(stmt.Value)
		s.emitter.Emit(";")
	})
	return nil
}

// VisitReturnStmt implements StatementVisitor
func (s *Serializer) VisitReturnStmt(stmt *ReturnStmt, context interface{}) interface{} {
	s.scoped(&stmt.Provenance, func() {
		s.emitter.Emit("return ")
		s.Serialize(stmt.Value)
		s.emitter.Emit(";")
	})
	return nil
}

// VisitExpressionStmt implements StatementVisitor
func (s *Serializer) VisitExpressionStmt(stmt *ExpressionStmt, context interface{}) interface{} {
	s.scoped(&stmt.Provenance, func() {
		s.Serialize(stmt.Expr)
		s.emitter.Emit(";")
	})
	return nil
}
