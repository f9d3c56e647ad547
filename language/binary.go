// Package language holds the file-type knowledge used to decide whether a
// file is worth scanning as text.
package language

import "bytes"

// sampleSize is how much of a file the control-character heuristic inspects.
const sampleSize = 8000

// IsBinaryContent checks if the given byte slice appears to be binary content.
// Any NUL byte marks the data as binary; otherwise the leading sample is
// rejected when more than 10% of it is non-whitespace control characters.
func IsBinaryContent(data []byte) bool {
	if bytes.IndexByte(data, 0) >= 0 {
		return true
	}

	sample := data
	if len(sample) > sampleSize {
		sample = sample[:sampleSize]
	}
	if len(sample) == 0 {
		return false
	}

	control := 0
	for _, b := range sample {
		if b < 0x20 && b != '\n' && b != '\r' && b != '\t' && b != '\f' && b != '\b' && b != 0x1b {
			control++
		}
	}
	return control*10 > len(sample)
}
