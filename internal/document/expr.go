package document

import (
	"github.com/dop251/goja"
)

func compileExpr(src string, p position) (*goja.Program, error) {
	prog, err := goja.Compile(p.file, src, false)
	if err != nil {
		return nil, p.fail("E126").Wrap(err)
	}
	return prog, nil
}

// eval runs an expression placeholder with props and context bound as
// plain objects. The runtime is created once per scope.
func (s *scope) eval(p *placeholder) (any, error) {
	if s.vm == nil {
		vm := goja.New()
		props := make(map[string]any, s.props.Len())
		s.props.Range(func(key string, value any) bool {
			props[key] = value
			return true
		})
		ctx := map[string]any(s.ctx)
		if ctx == nil {
			ctx = map[string]any{}
		}
		if err := vm.Set("props", props); err != nil {
			return nil, p.fail("E126").Wrap(err)
		}
		if err := vm.Set("context", ctx); err != nil {
			return nil, p.fail("E126").Wrap(err)
		}
		s.vm = vm
	}

	v, err := s.vm.RunProgram(p.program)
	if err != nil {
		return nil, p.fail("E126").Wrap(err)
	}
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, nil
	}
	return v.Export(), nil
}
