package alpaca

import (
	"encoding/binary"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
)

// MediaTypeImageBytes is the media type negotiating the binary image
// encoding.
const MediaTypeImageBytes = "application/imagebytes"

// ImageElementTypeInt32 is the stored element type. This implementation
// always interprets image data as 32-bit signed integers.
const ImageElementTypeInt32 int32 = 2

// TransmissionElementType identifies the integer width of an ImageBytes
// payload. The encoder always transmits Int32; the decoder accepts all
// four widths and widens.
type TransmissionElementType int32

const (
	TransmissionInt16  TransmissionElementType = 1
	TransmissionInt32  TransmissionElementType = 2
	TransmissionByte   TransmissionElementType = 6
	TransmissionUint16 TransmissionElementType = 8
)

func (t TransmissionElementType) size() int {
	switch t {
	case TransmissionInt16, TransmissionUint16:
		return 2
	case TransmissionInt32:
		return 4
	case TransmissionByte:
		return 1
	}
	return 0
}

const (
	imageBytesHeaderSize = 44 // eleven little-endian int32 fields
	imageBytesVersion    = 1
)

// Framing errors. A device-reported error inside a well-formed frame is a
// *Error instead.
var (
	ErrImageShortHeader    = errors.New("imagebytes: buffer shorter than header")
	ErrImageBadVersion     = errors.New("imagebytes: unsupported metadata version")
	ErrImageBadElementType = errors.New("imagebytes: unsupported element type")
	ErrImageBadRank        = errors.New("imagebytes: rank must be 2 or 3")
	ErrImageBadDims        = errors.New("imagebytes: dimensions inconsistent with rank")
	ErrImageBadDataStart   = errors.New("imagebytes: data start out of range")
	ErrImageSizeMismatch   = errors.New("imagebytes: payload size mismatch")
)

// EncodeImageBytes renders an image in the binary encoding. The samples are
// transmitted as little-endian Int32; rank-2 images go out with Dim3 == 0
// as the wire format requires.
func EncodeImageBytes(img *ImageArray, txn ResponseTransaction) []byte {
	dim1, dim2, dim3 := img.Dims()
	rank := img.Rank()
	wireDim3 := dim3
	if rank == 2 {
		wireDim3 = 0
	}
	data := img.Data()
	buf := make([]byte, imageBytesHeaderSize+4*len(data))
	putImageBytesHeader(buf, headerFields{
		errorNumber:         0,
		clientTransactionID: txn.ClientTransactionID,
		serverTransactionID: txn.ServerTransactionID,
		imageElementType:    ImageElementTypeInt32,
		transmissionType:    TransmissionInt32,
		rank:                int32(rank),
		dim1:                int32(dim1),
		dim2:                int32(dim2),
		dim3:                int32(wireDim3),
	})
	off := imageBytesHeaderSize
	for _, v := range data {
		binary.LittleEndian.PutUint32(buf[off:], uint32(v))
		off += 4
	}
	return buf
}

// EncodeImageBytesError renders a device error in the binary encoding: the
// header carries the error number and the payload is the UTF-8 message.
// Clients that negotiated imagebytes receive errors this way too.
func EncodeImageBytesError(devErr *Error, txn ResponseTransaction) []byte {
	msg := []byte(devErr.Message)
	buf := make([]byte, imageBytesHeaderSize+len(msg))
	putImageBytesHeader(buf, headerFields{
		errorNumber:         int32(devErr.Code),
		clientTransactionID: txn.ClientTransactionID,
		serverTransactionID: txn.ServerTransactionID,
	})
	copy(buf[imageBytesHeaderSize:], msg)
	return buf
}

type headerFields struct {
	errorNumber         int32
	clientTransactionID uint32
	serverTransactionID uint32
	imageElementType    int32
	transmissionType    TransmissionElementType
	rank                int32
	dim1, dim2, dim3    int32
}

func putImageBytesHeader(buf []byte, h headerFields) {
	le := binary.LittleEndian
	le.PutUint32(buf[0:], imageBytesVersion)
	le.PutUint32(buf[4:], uint32(h.errorNumber))
	le.PutUint32(buf[8:], h.clientTransactionID)
	le.PutUint32(buf[12:], h.serverTransactionID)
	le.PutUint32(buf[16:], imageBytesHeaderSize)
	le.PutUint32(buf[20:], uint32(h.imageElementType))
	le.PutUint32(buf[24:], uint32(h.transmissionType))
	le.PutUint32(buf[28:], uint32(h.rank))
	le.PutUint32(buf[32:], uint32(h.dim1))
	le.PutUint32(buf[36:], uint32(h.dim2))
	le.PutUint32(buf[40:], uint32(h.dim3))
}

// DecodeImageBytes parses a binary imagebytes response. A device-reported
// error comes back as a *Error; malformed frames come back as framing
// errors. The response transaction is returned in both cases once the
// header parses.
func DecodeImageBytes(data []byte) (*ImageArray, ResponseTransaction, error) {
	var txn ResponseTransaction
	if len(data) < imageBytesHeaderSize {
		return nil, txn, fmt.Errorf("%w: %d bytes", ErrImageShortHeader, len(data))
	}
	le := binary.LittleEndian
	version := int32(le.Uint32(data[0:]))
	errorNumber := int32(le.Uint32(data[4:]))
	txn.ClientTransactionID = le.Uint32(data[8:])
	txn.ServerTransactionID = le.Uint32(data[12:])
	dataStart := int32(le.Uint32(data[16:]))
	imageElementType := int32(le.Uint32(data[20:]))
	transmissionType := TransmissionElementType(le.Uint32(data[24:]))
	rank := int32(le.Uint32(data[28:]))
	dim1 := int(int32(le.Uint32(data[32:])))
	dim2 := int(int32(le.Uint32(data[36:])))
	dim3 := int(int32(le.Uint32(data[40:])))

	if version != imageBytesVersion {
		return nil, txn, fmt.Errorf("%w: %d", ErrImageBadVersion, version)
	}
	if dataStart < imageBytesHeaderSize || int(dataStart) > len(data) {
		return nil, txn, fmt.Errorf("%w: %d", ErrImageBadDataStart, dataStart)
	}
	payload := data[dataStart:]

	if errorNumber != 0 {
		return nil, txn, NewError(ErrorCode(errorNumber), string(payload))
	}

	if imageElementType != ImageElementTypeInt32 {
		return nil, txn, fmt.Errorf("%w: image element type %d", ErrImageBadElementType, imageElementType)
	}
	elemSize := transmissionType.size()
	if elemSize == 0 {
		return nil, txn, fmt.Errorf("%w: transmission element type %d", ErrImageBadElementType, transmissionType)
	}
	switch rank {
	case 2:
		if dim3 != 0 {
			return nil, txn, fmt.Errorf("%w: rank 2 requires Dim3 == 0, got %d", ErrImageBadDims, dim3)
		}
		dim3 = 1
	case 3:
		if dim3 < 1 {
			return nil, txn, fmt.Errorf("%w: rank 3 requires Dim3 >= 1, got %d", ErrImageBadDims, dim3)
		}
	default:
		return nil, txn, fmt.Errorf("%w: got %d", ErrImageBadRank, rank)
	}
	if dim1 <= 0 || dim2 <= 0 {
		return nil, txn, fmt.Errorf("%w: %d x %d", ErrImageBadDims, dim1, dim2)
	}
	count := dim1 * dim2 * dim3
	if len(payload) != count*elemSize {
		return nil, txn, fmt.Errorf("%w: %d bytes for %d %d-byte samples", ErrImageSizeMismatch, len(payload), count, elemSize)
	}

	img, err := NewImageArray(dim1, dim2, dim3)
	if err != nil {
		return nil, txn, err
	}
	dst := img.Data()
	switch transmissionType {
	case TransmissionInt16:
		for i := range dst {
			dst[i] = int32(int16(le.Uint16(payload[2*i:])))
		}
	case TransmissionInt32:
		for i := range dst {
			dst[i] = int32(le.Uint32(payload[4*i:]))
		}
	case TransmissionByte:
		for i := range dst {
			dst[i] = int32(payload[i])
		}
	case TransmissionUint16:
		for i := range dst {
			dst[i] = int32(le.Uint16(payload[2*i:]))
		}
	}
	return img, txn, nil
}

// AcceptsImageBytes reports whether the request's Accept header lists the
// imagebytes media type. Media type parameters (q-values and the like) are
// ignored, as is casing.
func AcceptsImageBytes(h http.Header) bool {
	for _, v := range h.Values("Accept") {
		for _, part := range strings.Split(v, ",") {
			mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
			if err == nil && mt == MediaTypeImageBytes {
				return true
			}
		}
	}
	return false
}
