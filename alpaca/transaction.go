package alpaca

import (
	"strconv"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Counter allocates server (or client) transaction IDs. The zero value is
// ready to use and yields 1 first; the sequence restarts only when the
// process does. Every server and every client owns its own Counter, never
// a process-global one.
type Counter struct {
	last atomic.Uint32
}

// Next returns the next transaction ID. IDs are strictly increasing and
// never zero, since zero encodes "absent" on the wire.
func (c *Counter) Next() uint32 {
	return c.last.Add(1)
}

// RequestTransaction carries the identifiers a client attached to one
// request. Zero means the parameter was not sent.
type RequestTransaction struct {
	ClientID            uint32
	ClientTransactionID uint32
}

// ExtractRequestTransaction pulls ClientID and ClientTransactionID out of
// params. A malformed value is logged and read as absent; a bad ID is never
// worth failing the request over.
func ExtractRequestTransaction(p *Params, log zerolog.Logger) RequestTransaction {
	return RequestTransaction{
		ClientID:            extractLenientID(p, "ClientID", log),
		ClientTransactionID: extractLenientID(p, "ClientTransactionID", log),
	}
}

func extractLenientID(p *Params, name string, log zerolog.Logger) uint32 {
	raw, ok := p.MaybeString(name)
	if !ok {
		return 0
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		log.Warn().Str("param", name).Str("value", raw).Msg("ignoring unparsable ID")
		return 0
	}
	// 0 is the wire encoding of "absent".
	return uint32(n)
}

// ResponseTransaction is the transaction pair echoed in every response.
// ClientTransactionID is zero when the client sent none and is then omitted
// from the JSON envelope.
type ResponseTransaction struct {
	ClientTransactionID uint32
	ServerTransactionID uint32
}
