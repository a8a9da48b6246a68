package vars

// ExprBuilder collects the inputs of an expression variable. Each call to
// [ExprInput] registers one dependency and returns a getter the evaluator
// closes over, so the dependency set is extracted from the call sites
// rather than declared twice.
//
//	b := vars.NewExpr[string]()
//	name := vars.ExprInput(b, nameVar)
//	count := vars.ExprInput(b, countVar)
//	label := b.Build(func() string {
//		return fmt.Sprintf("%s (%d)", name(), count())
//	})
type ExprBuilder[T any] struct {
	inputs []AnyVar
	built  bool
}

// NewExpr starts an expression producing T.
func NewExpr[T any]() *ExprBuilder[T] {
	return &ExprBuilder[T]{}
}

// ExprInput registers src as a dependency and returns its read accessor.
// It must be called before Build.
func ExprInput[T, S any](b *ExprBuilder[T], src Var[S]) func() S {
	if b.built {
		panic("vars: ExprInput after Build")
	}
	b.inputs = append(b.inputs, src)
	return src.Get
}

// Build finalizes the expression. The result is a read-only variable whose
// version moves with any registered input, recomputed lazily on read.
func (b *ExprBuilder[T]) Build(eval func() T) Var[T] {
	b.built = true
	return MergeAny(func([]any) T { return eval() }, b.inputs...)
}
