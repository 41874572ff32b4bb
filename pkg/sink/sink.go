package sink

import (
	"github.com/funcompany/justlog-go/pkg/encode"
)

// Sink is anything that can accept an encoded log record.
// Implementations must be safe for concurrent use.
type Sink interface {
	// Accept takes ownership of nothing: the encoded record is shared
	// and must not be mutated. Accept should return quickly;
	// destinations with slow I/O should queue internally.
	Accept(e encode.Encoded) error
}
