package source

import (
	"bufio"
	"errors"
	"io"
)

// maxLineSize bounds a single physical line in file sources.
const maxLineSize = 16 * 1024 * 1024

// lineReader yields physical lines one at a time. Lines longer than limit are
// drained from the input and reported instead of failing the read.
type lineReader struct {
	r     *bufio.Reader
	limit int
	buf   []byte
}

func newLineReader(r io.Reader, limit int) *lineReader {
	return &lineReader{r: bufio.NewReaderSize(r, 64*1024), limit: limit}
}

// next returns the next line without its "\n" terminator. The slice is only
// valid until the following call. tooLong is set when the line exceeded limit
// and was discarded. err is io.EOF once the input is exhausted, or the
// underlying read error.
func (lr *lineReader) next() (line []byte, tooLong bool, err error) {
	lr.buf = lr.buf[:0]
	read := 0
	for {
		chunk, readErr := lr.r.ReadSlice('\n')
		read += len(chunk)
		if !tooLong {
			if len(lr.buf)+len(chunk) > lr.limit+1 {
				tooLong = true
				lr.buf = lr.buf[:0]
			} else {
				lr.buf = append(lr.buf, chunk...)
			}
		}

		switch {
		case errors.Is(readErr, bufio.ErrBufferFull):
			continue
		case errors.Is(readErr, io.EOF):
			if read == 0 {
				return nil, false, io.EOF
			}
		case readErr != nil:
			return nil, false, readErr
		}

		if tooLong {
			return nil, true, nil
		}
		if readErr == nil {
			lr.buf = lr.buf[:len(lr.buf)-1]
		}
		return lr.buf, false, nil
	}
}
