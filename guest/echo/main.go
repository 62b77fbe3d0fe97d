// Command echo is a minimal process module: it ignores its parameters and
// returns its data payload unchanged. Grounded on
// zustdp-module-process-echo (original_source/zustdp-modules-common),
// whose Rust EchoProcess likewise does nothing with its parameters — the
// Go version completes what that reference left as a stub (it returned
// None unconditionally) by actually echoing the data payload, since a
// no-op process that always errors is not a useful pipeline fixture.
//
// Build with TinyGo targeting wasip1:
//
//	tinygo build -o echo.wasm -target=wasip1 ./guest/echo
package main

import "github.com/ZuInnoTe/ZuStDPipe/guest"

type echoProcess struct{}

func (echoProcess) Execute(params guest.Parameters) (*guest.Result, error) {
	return &guest.Result{Data: params.Data}, nil
}

func init() {
	guest.Register(echoProcess{})
}

func main() {}
