package prebuilt

import "github.com/nodeflow/nodeflow/pkg/nodeflow"

// Evaluators returns the evaluation hooks for every prebuilt node type.
func Evaluators() map[string]nodeflow.EvaluateFunc {
	return map[string]nodeflow.EvaluateFunc{
		TypeStart:   evalStart,
		TypeStep:    evalStep,
		TypeBranch:  evalBranch,
		TypeCounter: evalCounter,
		TypeConst:   evalConst,
		TypeSum:     evalSum,
		TypeConcat:  evalConcat,
		TypeRelay:   evalRelay,
		TypeCollect: evalCollect,
	}
}

// Register installs all prebuilt node types on the runtime.
func Register(rt *nodeflow.Runtime) {
	for nodeType, fn := range Evaluators() {
		rt.Register(nodeType, fn)
	}
}
