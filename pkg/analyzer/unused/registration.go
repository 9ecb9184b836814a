package unused

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/vestige-dev/vestige/pkg/csharp"
	"github.com/vestige-dev/vestige/pkg/parser"
	"github.com/vestige-dev/vestige/pkg/symbol"
)

// registrationAPIs names the "register a handler by name or delegate" calls
// whose zero-based argument 2 designates the target method.
var registrationAPIs = map[string]struct{}{
	"AddConsoleCommand":   {},
	"AddChatCommand":      {},
	"AddCovalenceCommand": {},
	"RegisterCommand":     {},
}

// registrationTargetArg is the zero-based argument index carrying the
// handler in all recognized registration APIs.
const registrationTargetArg = 2

// registration is the outcome of matching one registration call: either
// resolved target symbols, a constant string naming the handler, or both.
type registration struct {
	targets []*symbol.Method
	names   []string
}

// matchRegistration detects the dynamic registration pattern on an
// invocation node. String-registered dispatch is invisible to ordinary
// reference scanning, so the handler argument gets three dedicated
// resolution strategies: compile-time constant name, single-parameter
// forwarding lambda, and direct method-group reference.
func matchRegistration(prog Program, f *csharp.File, call *sitter.Node) (registration, bool) {
	var reg registration

	if !isRegistrationCall(f, call) {
		return reg, false
	}
	args := call.ChildByFieldName("arguments")
	target := nthArgument(args, registrationTargetArg)
	if target == nil {
		return reg, false
	}
	expr := argumentExpression(target)
	if expr == nil {
		return reg, false
	}

	// Strategy 1: constant string equal to the handler's name.
	if name, ok := prog.ConstantValue(f, expr); ok {
		reg.names = append(reg.names, name)
		return reg, true
	}

	// Strategy 2: single-parameter lambda forwarding to the handler.
	if expr.Type() == "lambda_expression" {
		if m, ok := lambdaForwardTarget(prog, f, expr); ok {
			reg.targets = append(reg.targets, m)
			return reg, true
		}
		return reg, false
	}

	// Strategy 3: method group / delegate conversion.
	if m, ok := prog.ResolveMethod(f, expr); ok {
		reg.targets = append(reg.targets, m)
		return reg, true
	}
	return reg, false
}

// isRegistrationCall reports whether the invocation targets a recognized
// registration API, invoked bare or through member access.
func isRegistrationCall(f *csharp.File, call *sitter.Node) bool {
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return false
	}
	name := parser.GetNodeText(fn, f.Source)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	_, ok := registrationAPIs[name]
	if !ok {
		return false
	}
	return argumentCountAtLeast(call.ChildByFieldName("arguments"), registrationTargetArg+1)
}

func argumentCountAtLeast(args *sitter.Node, want int) bool {
	if args == nil {
		return false
	}
	n := 0
	for i := 0; i < int(args.NamedChildCount()); i++ {
		if args.NamedChild(i).Type() == "argument" {
			n++
			if n >= want {
				return true
			}
		}
	}
	return false
}

func nthArgument(args *sitter.Node, index int) *sitter.Node {
	if args == nil {
		return nil
	}
	n := 0
	for i := 0; i < int(args.NamedChildCount()); i++ {
		c := args.NamedChild(i)
		if c.Type() != "argument" {
			continue
		}
		if n == index {
			return c
		}
		n++
	}
	return nil
}

func argumentExpression(arg *sitter.Node) *sitter.Node {
	for i := 0; i < int(arg.NamedChildCount()); i++ {
		c := arg.NamedChild(i)
		if c.Type() != "name_colon" {
			return c
		}
	}
	return nil
}

// lambdaForwardTarget resolves `x => Handler(x)` style arguments: a lambda
// with exactly one parameter whose body invokes a program method.
func lambdaForwardTarget(prog Program, f *csharp.File, lambda *sitter.Node) (*symbol.Method, bool) {
	if lambdaParamCount(f, lambda) != 1 {
		return nil, false
	}
	body := lambda.ChildByFieldName("body")
	if body == nil {
		return nil, false
	}

	var target *symbol.Method
	parser.Walk(body, f.Source, func(n *sitter.Node, _ []byte) bool {
		if target != nil {
			return false
		}
		if n.Type() == "invocation_expression" {
			if m, ok := prog.ResolveMethod(f, n); ok {
				target = m
				return false
			}
		}
		return true
	})
	return target, target != nil
}

func lambdaParamCount(f *csharp.File, lambda *sitter.Node) int {
	if params := lambda.ChildByFieldName("parameters"); params != nil {
		n := 0
		for i := 0; i < int(params.NamedChildCount()); i++ {
			if params.NamedChild(i).Type() == "parameter" {
				n++
			}
		}
		return n
	}
	// `x => ...` carries a bare identifier instead of a parameter list.
	for i := 0; i < int(lambda.ChildCount()); i++ {
		c := lambda.Child(i)
		if c.Type() == "identifier" {
			return 1
		}
		if c.Type() == "=>" {
			break
		}
	}
	return 0
}
