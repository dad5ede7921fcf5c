package alpaca

import (
	"encoding/json"
	"fmt"
)

// envelope is the transaction and error frame every JSON response shares.
type envelope struct {
	ClientTransactionID uint32 `json:"ClientTransactionID,omitempty"`
	ServerTransactionID uint32 `json:"ServerTransactionID"`
	ErrorNumber         int32  `json:"ErrorNumber"`
	ErrorMessage        string `json:"ErrorMessage"`
}

// ValueResponse forces its payload under a "Value" key even when the
// payload is an object. The management API responds in this shape.
type ValueResponse struct {
	Value any `json:"Value"`
}

// MarshalResponse renders a success envelope. Scalars and arrays nest under
// "Value"; object-shaped values (devicestate, the JSON image form) merge
// their members into the envelope; nil adds nothing.
func MarshalResponse(txn ResponseTransaction, value any) ([]byte, error) {
	head, err := json.Marshal(envelope{
		ClientTransactionID: txn.ClientTransactionID,
		ServerTransactionID: txn.ServerTransactionID,
	})
	if err != nil {
		return nil, err
	}
	if value == nil {
		return head, nil
	}
	body, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal response value: %w", err)
	}
	return splice(head, body), nil
}

// MarshalErrorResponse renders a device error envelope. No value
// accompanies an error.
func MarshalErrorResponse(txn ResponseTransaction, devErr *Error) ([]byte, error) {
	return json.Marshal(envelope{
		ClientTransactionID: txn.ClientTransactionID,
		ServerTransactionID: txn.ServerTransactionID,
		ErrorNumber:         int32(devErr.Code),
		ErrorMessage:        devErr.Message,
	})
}

// splice merges a marshaled value into the envelope object: objects are
// flattened member by member, anything else becomes the "Value" member.
func splice(head, body []byte) []byte {
	out := make([]byte, 0, len(head)+len(body)+16)
	out = append(out, head[:len(head)-1]...)
	if len(body) >= 2 && body[0] == '{' {
		if len(body) == 2 {
			return append(out, '}')
		}
		out = append(out, ',')
		return append(out, body[1:]...)
	}
	out = append(out, `,"Value":`...)
	out = append(out, body...)
	return append(out, '}')
}

// ServerDescription is the server metadata block the management API
// reports.
type ServerDescription struct {
	ServerName          string `json:"ServerName"`
	Manufacturer        string `json:"Manufacturer"`
	ManufacturerVersion string `json:"ManufacturerVersion"`
	Location            string `json:"Location"`
}

// SupportedAPIVersions lists the Alpaca API versions this implementation
// speaks.
var SupportedAPIVersions = []int32{1}
