package alpaca

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ImageArray is a camera image: a dense block of 32-bit signed samples laid
// out dim1 × dim2 × dim3 in row-major order with dim3 varying fastest.
// dim3 == 1 means a rank-2 image (monochrome or un-debayered sensor data);
// dim3 > 1 means rank 3 (one plane per colour component).
type ImageArray struct {
	dim1, dim2, dim3 int
	data             []int32
}

// NewImageArray allocates a zeroed image. dim3 must be at least 1; pass 1
// for a rank-2 image.
func NewImageArray(dim1, dim2, dim3 int) (*ImageArray, error) {
	if dim1 <= 0 || dim2 <= 0 || dim3 <= 0 {
		return nil, fmt.Errorf("invalid image dimensions %d x %d x %d", dim1, dim2, dim3)
	}
	return &ImageArray{
		dim1: dim1,
		dim2: dim2,
		dim3: dim3,
		data: make([]int32, dim1*dim2*dim3),
	}, nil
}

// Rank reports 2 or 3. A single-plane image is rank 2 by definition.
func (a *ImageArray) Rank() int {
	if a.dim3 == 1 {
		return 2
	}
	return 3
}

// Dims returns the three dimensions; dim3 is 1 for rank-2 images.
func (a *ImageArray) Dims() (dim1, dim2, dim3 int) {
	return a.dim1, a.dim2, a.dim3
}

// Data exposes the backing samples for bulk reads and writes. Its length is
// dim1*dim2*dim3.
func (a *ImageArray) Data() []int32 { return a.data }

// At returns the sample at (i, j, k).
func (a *ImageArray) At(i, j, k int) int32 {
	return a.data[(i*a.dim2+j)*a.dim3+k]
}

// Set stores the sample at (i, j, k).
func (a *ImageArray) Set(i, j, k int, v int32) {
	a.data[(i*a.dim2+j)*a.dim3+k] = v
}

// MarshalJSON renders the Alpaca JSON image form
// {"Type":2,"Rank":r,"Value":...} with the samples as nested arrays. Rank-2
// images omit the plane level.
func (a *ImageArray) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(32 + 8*len(a.data))
	fmt.Fprintf(&buf, `{"Type":%d,"Rank":%d,"Value":[`, ImageElementTypeInt32, a.Rank())
	tmp := make([]byte, 0, 12)
	idx := 0
	for i := 0; i < a.dim1; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('[')
		for j := 0; j < a.dim2; j++ {
			if j > 0 {
				buf.WriteByte(',')
			}
			if a.dim3 == 1 {
				buf.Write(strconv.AppendInt(tmp, int64(a.data[idx]), 10))
				idx++
				continue
			}
			buf.WriteByte('[')
			for k := 0; k < a.dim3; k++ {
				if k > 0 {
					buf.WriteByte(',')
				}
				buf.Write(strconv.AppendInt(tmp, int64(a.data[idx]), 10))
				idx++
			}
			buf.WriteByte(']')
		}
		buf.WriteByte(']')
	}
	buf.WriteString("]}")
	return buf.Bytes(), nil
}

// UnmarshalJSON parses the JSON image form. Unknown and reordered keys are
// tolerated; the shape is inferred from the first row (and first plane) and
// every later one must match it.
func (a *ImageArray) UnmarshalJSON(b []byte) error {
	var raw struct {
		Type  *int32          `json:"Type"`
		Rank  int32           `json:"Rank"`
		Value json.RawMessage `json:"Value"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("image json: %w", err)
	}
	if raw.Type == nil {
		return fmt.Errorf("image json: missing Type")
	}
	if *raw.Type != ImageElementTypeInt32 {
		return fmt.Errorf("image json: unsupported element type %d", *raw.Type)
	}
	if raw.Value == nil {
		return fmt.Errorf("image json: missing Value")
	}
	switch raw.Rank {
	case 2:
		return a.decodeRank2(raw.Value)
	case 3:
		return a.decodeRank3(raw.Value)
	}
	return fmt.Errorf("image json: rank must be 2 or 3, got %d", raw.Rank)
}

func (a *ImageArray) decodeRank2(raw json.RawMessage) error {
	var rows [][]int32
	if err := json.Unmarshal(raw, &rows); err != nil {
		return fmt.Errorf("image json: %w", err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return fmt.Errorf("image json: empty image")
	}
	dim2 := len(rows[0])
	img, err := NewImageArray(len(rows), dim2, 1)
	if err != nil {
		return err
	}
	for i, row := range rows {
		if len(row) != dim2 {
			return fmt.Errorf("image json: row %d has %d samples, want %d", i, len(row), dim2)
		}
		copy(img.data[i*dim2:], row)
	}
	*a = *img
	return nil
}

func (a *ImageArray) decodeRank3(raw json.RawMessage) error {
	var rows [][][]int32
	if err := json.Unmarshal(raw, &rows); err != nil {
		return fmt.Errorf("image json: %w", err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 || len(rows[0][0]) == 0 {
		return fmt.Errorf("image json: empty image")
	}
	dim2, dim3 := len(rows[0]), len(rows[0][0])
	img, err := NewImageArray(len(rows), dim2, dim3)
	if err != nil {
		return err
	}
	for i, row := range rows {
		if len(row) != dim2 {
			return fmt.Errorf("image json: row %d has %d entries, want %d", i, len(row), dim2)
		}
		for j, cell := range row {
			if len(cell) != dim3 {
				return fmt.Errorf("image json: cell (%d,%d) has %d planes, want %d", i, j, len(cell), dim3)
			}
			copy(img.data[(i*dim2+j)*dim3:], cell)
		}
	}
	*a = *img
	return nil
}
