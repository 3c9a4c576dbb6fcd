package source

import (
	"errors"
	"io"
)

// Replay feeds previously captured raw bytes back as a Source, Chunk bytes per
// Read. It lets a recorded session drive the engine without hardware.
type Replay struct {
	r     io.Reader
	chunk int
	// StopAtEOF makes Read report io.EOF once the capture is exhausted.
	// Otherwise the source goes quiet and the loop keeps re-submitting the
	// last state.
	StopAtEOF bool
	eof       bool
}

// NewReplay wraps r. A chunk of zero or less reads one report per tick.
func NewReplay(r io.Reader, chunk int) *Replay {
	if chunk <= 0 {
		chunk = 5
	}
	return &Replay{r: r, chunk: chunk}
}

func (s *Replay) Read(p []byte) (int, error) {
	if s.eof {
		if s.StopAtEOF {
			return 0, io.EOF
		}
		return 0, nil
	}
	if len(p) > s.chunk {
		p = p[:s.chunk]
	}
	n, err := io.ReadFull(s.r, p)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		s.eof = true
		if n == 0 && s.StopAtEOF {
			return 0, io.EOF
		}
		return n, nil
	}
	return n, err
}

func (s *Replay) Close() error {
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Recorder tees everything read from a Source into W.
type Recorder struct {
	Source
	W io.Writer
}

func (r Recorder) Read(p []byte) (int, error) {
	n, err := r.Source.Read(p)
	if n > 0 {
		if _, werr := r.W.Write(p[:n]); werr != nil && err == nil {
			err = werr
		}
	}
	return n, err
}

func (r Recorder) Close() error {
	err := r.Source.Close()
	if c, ok := r.W.(io.Closer); ok {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
