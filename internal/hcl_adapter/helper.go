package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/ridgegrow/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"github.com/zclconf/go-cty/cty/gocty"
)

// isExprDefined checks if an HCL expression was actually present in the source
// code. The HCL decoder often populates optional fields with non-nil, zero-width
// expression objects, so a simple nil check is insufficient.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	logger := ctxlog.FromContext(ctx)

	if expr == nil {
		logger.Debug("Expression is nil, considering it undefined.", "attribute", attrName)
		return false
	}

	// A real attribute occupies bytes in the file, while a placeholder for an
	// omitted optional attribute has a zero-width range.
	exprRange := expr.Range()
	isDefined := exprRange.End.Byte > exprRange.Start.Byte

	logger.Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", exprRange.String(),
		"is_defined", isDefined,
	)

	return isDefined
}

// newEvalContext returns the evaluation context shared by every attribute in a scene.
func newEvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": processEnv(),
		},
		Functions: map[string]function.Function{
			"abs":      stdlib.AbsoluteFunc,
			"ceil":     stdlib.CeilFunc,
			"coalesce": stdlib.CoalesceFunc,
			"concat":   stdlib.ConcatFunc,
			"floor":    stdlib.FloorFunc,
			"lookup":   stdlib.LookupFunc,
			"max":      stdlib.MaxFunc,
			"min":      stdlib.MinFunc,
			"range":    stdlib.RangeFunc,
		},
	}
}

// evalInto evaluates expr, converts the result to want and decodes it into out.
func evalInto(evalCtx *hcl.EvalContext, expr hcl.Expression, want cty.Type, out any) error {
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return diags
	}
	if val.IsNull() {
		return fmt.Errorf("%s: value must not be null", expr.Range())
	}
	if !val.IsWhollyKnown() {
		return fmt.Errorf("%s: value must be known", expr.Range())
	}
	converted, err := convert.Convert(val, want)
	if err != nil {
		return fmt.Errorf("%s: %w", expr.Range(), err)
	}
	if err := gocty.FromCtyValue(converted, out); err != nil {
		return fmt.Errorf("%s: %w", expr.Range(), err)
	}
	return nil
}

// evalOptional decodes expr into out when it is present in the source and
// leaves out untouched otherwise.
func evalOptional(ctx context.Context, evalCtx *hcl.EvalContext, expr hcl.Expression, name string, want cty.Type, out any) error {
	if !isExprDefined(ctx, expr, name) {
		return nil
	}
	if err := evalInto(evalCtx, expr, want, out); err != nil {
		return fmt.Errorf("attribute %q: %w", name, err)
	}
	return nil
}
