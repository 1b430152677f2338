package main

import (
	"fmt"

	"github.com/extism/go-pdk"
	msgpack "github.com/vmihailenco/msgpack/v5"
	"wasmplug/plugin"
)

// respond hands output or err back to the host. Every export returns
// through here so failures always carry an error message.
func respond(output []byte, err error) int32 {
	if err != nil {
		pdk.SetError(err)
		return 1
	}
	pdk.Output(output)
	return 0
}

//go:wasmexport tokenize
func Tokenize() int32 {
	return respond(plugin.Tokenize(pdk.InputString()))
}

//go:wasmexport tokenize_with
func TokenizeWith() int32 {
	return respond(plugin.TokenizeWith(pdk.Input()))
}

//go:wasmexport detokenize
func Detokenize() int32 {
	return respond(plugin.Detokenize(pdk.Input()))
}

func TokenizeAndBackFull() error {
	// Mostly for debugging
	encoded, err := plugin.Tokenize("Hello,  world! This is a test.\n")
	if err != nil {
		return err
	}
	var tokens plugin.TokenizeResult
	if err = msgpack.Unmarshal(encoded, &tokens); err != nil {
		return err
	}
	text, err := plugin.Detokenize(encoded)
	if err != nil {
		return err
	}
	fmt.Printf("%d tokens: %s", len(tokens), text)
	return nil
}

func main() {
	err := TokenizeAndBackFull()
	if err != nil {
		fmt.Println("Error:", err)
	}
}
