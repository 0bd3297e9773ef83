// Command cinterp-wasm is a thin syscall/js binding exposing interp.Interpret
// to a browser host, built with `GOOS=js GOARCH=wasm go build`. It contains
// no interpreter semantics of its own: it decodes one JS string argument,
// calls interp.Interpret, and encodes the Result as a JS object.
package main

import (
	"syscall/js"

	"cinterp/interp"
)

func main() {
	js.Global().Set("cinterpRun", js.FuncOf(run))
	select {}
}

func run(this js.Value, args []js.Value) interface{} {
	if len(args) != 1 {
		return resultToJS(interp.Result{Error: "cinterpRun expects exactly one string argument"})
	}
	source := args[0].String()
	result := interp.Interpret(source)
	return resultToJS(result)
}

func resultToJS(result interp.Result) js.Value {
	obj := js.Global().Get("Object").New()
	obj.Set("ok", result.OK)
	obj.Set("output", result.Output)
	obj.Set("error", result.Error)
	return obj
}
