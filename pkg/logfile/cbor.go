package logfile

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// entryEncMode is the CBOR encoder mode for log entries.
// Configured for nanosecond-precision timestamps and deterministic encoding.
var entryEncMode cbor.EncMode

// entryDecMode is the CBOR decoder mode for log entries.
var entryDecMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	entryEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create log CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	entryDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create log CBOR decoder mode: %v", err))
	}
}

// EncodeEntry encodes an Entry to CBOR bytes.
func EncodeEntry(e Entry) ([]byte, error) {
	return entryEncMode.Marshal(e)
}

// DecodeEntry decodes CBOR bytes into an Entry.
func DecodeEntry(data []byte) (Entry, error) {
	var e Entry
	if err := entryDecMode.Unmarshal(data, &e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// NewEncoder creates a CBOR encoder for log entries that writes to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return entryEncMode.NewEncoder(w)
}

// NewDecoder creates a CBOR decoder for log entries that reads from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return entryDecMode.NewDecoder(r)
}
