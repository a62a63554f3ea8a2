package sv2wire

import (
	"reflect"

	"github.com/bytedance/sonic"
)

// fastJSONMarshal encodes v as JSON using the Sonic encoder, which is
// optimized for throughput and lower allocations compared to encoding/json.
func fastJSONMarshal(v any) ([]byte, error) {
	return sonic.Marshal(v)
}

// fastJSONUnmarshal decodes JSON data into v using Sonic. It is a drop-in
// replacement for encoding/json.Unmarshal for typical Go structs.
func fastJSONUnmarshal(data []byte, v any) error {
	return sonic.Unmarshal(data, v)
}

func init() {
	// Sonic uses runtime codegen. Pretouching the config and debug types at
	// startup avoids first-hit latency spikes; errors are best-effort.
	_ = sonic.Pretouch(reflect.TypeOf((*Config)(nil)).Elem())
	_ = sonic.Pretouch(reflect.TypeOf((*frameDebugView)(nil)).Elem())
}
