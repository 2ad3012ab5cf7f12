// Package wire is the CBOR encoding used for messages between transcode
// clients and the daemon.
//
// Boundary types carry json struct tags only; the CBOR library falls back to
// them, so one set of tags serves both encodings.
package wire

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// encMode uses Core Deterministic Encoding: sorted map keys and minimal
// integer widths, so equal values encode to equal bytes.
var encMode cbor.EncMode

// decMode ignores unknown fields.
var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("wire: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// Pipeline parameters decode into any; keep them JSON-compatible.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("wire: CBOR decoder initialization failed: " + err.Error())
	}
}

func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// Diagnose returns CBOR diagnostic notation for data. The CLI uses it to
// dump raw responses.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}
