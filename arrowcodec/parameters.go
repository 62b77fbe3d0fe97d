// Package arrowcodec frames process parameters as Arrow IPC, matching the
// wire contract the Module ABI expects to find in a process's metadata
// buffer: a single-batch stream whose schema is {parameters: Map<Utf8,
// Utf8>}. Key order within the map mirrors the order of the parameter
// sequence declared on the process, since modules may be order-sensitive.
package arrowcodec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Param is one ordered key/value entry of a process's parameter sequence.
type Param struct {
	Key   string
	Value string
}

// ParametersSchema is the Arrow schema every metadata buffer carries:
// a single non-nullable Map<Utf8, Utf8> column named "parameters".
var ParametersSchema = arrow.NewSchema(
	[]arrow.Field{
		{Name: "parameters", Type: arrow.MapOf(arrow.BinaryTypes.String, arrow.BinaryTypes.String, false), Nullable: false},
	},
	nil,
)

// EncodeParameters serializes an ordered parameter sequence as a single-row
// Arrow IPC stream. An empty sequence still produces a valid stream with one
// row whose map has zero entries, so that a zero-parameter process still
// hands the guest a well-formed Arrow metadata buffer.
func EncodeParameters(params []Param) ([]byte, error) {
	mem := memory.DefaultAllocator

	recBuilder := array.NewRecordBuilder(mem, ParametersSchema)
	defer recBuilder.Release()

	mapBuilder := recBuilder.Field(0).(*array.MapBuilder)
	mapBuilder.Append(true)
	keyBuilder := mapBuilder.KeyBuilder().(*array.StringBuilder)
	itemBuilder := mapBuilder.ItemBuilder().(*array.StringBuilder)
	for _, p := range params {
		keyBuilder.Append(p.Key)
		itemBuilder.Append(p.Value)
	}

	rec := recBuilder.NewRecord()
	defer rec.Release()

	var buf bytes.Buffer
	w := ipc.NewWriter(&buf, ipc.WithSchema(ParametersSchema), ipc.WithAllocator(mem))
	if err := w.Write(rec); err != nil {
		return nil, fmt.Errorf("arrowcodec: writing parameters batch: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("arrowcodec: closing parameters writer: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeParameters reads back an ordered parameter sequence from an Arrow
// IPC stream produced by EncodeParameters. A zero-batch stream decodes to a
// nil slice, not an error, per the "readers must tolerate zero-batch
// streams" requirement on Arrow framing.
func DecodeParameters(data []byte) ([]Param, error) {
	mem := memory.DefaultAllocator
	r, err := ipc.NewReader(bytes.NewReader(data), ipc.WithAllocator(mem))
	if err != nil {
		return nil, fmt.Errorf("arrowcodec: opening parameters reader: %w", err)
	}
	defer r.Release()

	var params []Param
	for r.Next() {
		rec := r.Record()
		col, ok := rec.Column(0).(*array.Map)
		if !ok {
			return nil, fmt.Errorf("arrowcodec: parameters column is not a Map")
		}
		keys, ok := col.Keys().(*array.String)
		if !ok {
			return nil, fmt.Errorf("arrowcodec: map keys are not Utf8")
		}
		items, ok := col.Items().(*array.String)
		if !ok {
			return nil, fmt.Errorf("arrowcodec: map values are not Utf8")
		}
		for i := 0; i < col.Len(); i++ {
			start, end := col.ValueOffsets(i)
			for j := start; j < end; j++ {
				params = append(params, Param{Key: keys.Value(int(j)), Value: items.Value(int(j))})
			}
		}
	}
	if err := r.Err(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("arrowcodec: reading parameters stream: %w", err)
	}
	return params, nil
}
