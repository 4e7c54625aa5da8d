package camera

import (
	"bufio"
	"io"
)

// JPEG frame markers: SOI opens a frame, EOI closes it.
var (
	jpegSOI = []byte{0xFF, 0xD8}
	jpegEOI = []byte{0xFF, 0xD9}
)

// MJPEGSplitter cuts a raw MJPEG byte stream (as produced by ffmpeg's
// mjpeg muxer or a v4l2 device in MJPG mode) into individual JPEG
// frames. Bytes between frames are discarded.
type MJPEGSplitter struct {
	r      *bufio.Reader
	frame  []byte
	inJPEG bool
}

// NewMJPEGSplitter wraps r for frame extraction.
func NewMJPEGSplitter(r io.Reader) *MJPEGSplitter {
	return &MJPEGSplitter{r: bufio.NewReaderSize(r, 64*1024)}
}

// Next returns the next complete JPEG frame, including its SOI and EOI
// markers. It returns io.EOF once the stream ends; a frame cut off by
// EOF is dropped rather than returned half-finished.
func (s *MJPEGSplitter) Next() ([]byte, error) {
	var prev byte
	havePrev := false

	for {
		b, err := s.r.ReadByte()
		if err != nil {
			return nil, err
		}

		if !s.inJPEG {
			if havePrev && prev == jpegSOI[0] && b == jpegSOI[1] {
				s.inJPEG = true
				s.frame = append(s.frame[:0], jpegSOI...)
				havePrev = false
				continue
			}
			prev, havePrev = b, true
			continue
		}

		s.frame = append(s.frame, b)
		n := len(s.frame)
		if n >= 4 && s.frame[n-2] == jpegEOI[0] && s.frame[n-1] == jpegEOI[1] {
			s.inJPEG = false
			out := make([]byte, n)
			copy(out, s.frame)
			return out, nil
		}
	}
}
