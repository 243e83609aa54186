// Package capture provides pull based frame sources over media files and
// camera devices.  A source yields frames one at a time until exhausted,
// finite for file backed media and unbounded for live devices.  Stopping
// is caller driven: stop pulling and Close the source.
package capture

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"gocv.io/x/gocv"
)

// MediaType classifies the content of a media file
type MediaType int

const (
	// Image media contains a single frame
	Image MediaType = iota
	// Video media contains a known number of frames
	Video
	// Stream media contains an unknown number of frames
	Stream
)

// String returns a readable name of the media type
func (m MediaType) String() string {
	switch m {
	case Image:
		return "image"
	case Video:
		return "video"
	case Stream:
		return "stream"
	default:
		return "unknown"
	}
}

// DetectMediaType sniffs the media type of the file at the given path
// from its content rather than its extension
func DetectMediaType(path string) (MediaType, error) {

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return 0, fmt.Errorf("sniff media type of %s: %w", path, err)
	}

	prefix, _, _ := strings.Cut(mtype.String(), "/")

	switch prefix {
	case "image":
		return Image, nil
	case "video":
		return Video, nil
	default:
		return 0, fmt.Errorf("unsupported media type %s for %s", mtype, path)
	}
}

// Source is a pull based sequence of frames.  Read fills the given frame
// and reports whether one was produced, false means the source is
// exhausted.  The source owns nothing beyond its own handles, each read
// frame belongs to the caller for the duration of its processing loop.
type Source interface {
	Read(frame *gocv.Mat) bool
	Close() error
}

type options struct {
	loop bool
}

// Option configures a file backed source
type Option func(*options)

// WithLoop restarts file backed media from the beginning once exhausted,
// turning a finite source into an unbounded one.  Ignored for images and
// meaningless for devices.
func WithLoop() Option {
	return func(o *options) {
		o.loop = true
	}
}

// OpenFile opens a media file as a frame source, sniffing whether it is
// an image or a video.  Images yield exactly one frame unless looping.
func OpenFile(path string, opts ...Option) (Source, error) {

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	mediaType, err := DetectMediaType(path)
	if err != nil {
		return nil, err
	}

	switch mediaType {
	case Image:
		img := gocv.IMRead(path, gocv.IMReadColor)
		if img.Empty() {
			img.Close()
			return nil, fmt.Errorf("read image %s: empty frame", path)
		}
		return &imageSource{img: img, loop: o.loop}, nil

	default:
		vc, err := gocv.VideoCaptureFile(path)
		if err != nil {
			return nil, fmt.Errorf("open video %s: %w", path, err)
		}
		return &videoSource{vc: vc, loop: o.loop}, nil
	}
}

// OpenDevice opens a camera device as an unbounded frame source
func OpenDevice(deviceID int) (Source, error) {

	vc, err := gocv.VideoCaptureDevice(deviceID)
	if err != nil {
		return nil, fmt.Errorf("open camera device %d: %w", deviceID, err)
	}

	return &deviceSource{vc: vc}, nil
}

// imageSource yields a single decoded image frame
type imageSource struct {
	img  gocv.Mat
	loop bool
	done bool
}

func (s *imageSource) Read(frame *gocv.Mat) bool {

	if s.done && !s.loop {
		return false
	}

	s.img.CopyTo(frame)
	s.done = true

	return true
}

func (s *imageSource) Close() error {
	return s.img.Close()
}

// videoSource yields the frames of a video file in order
type videoSource struct {
	vc   *gocv.VideoCapture
	loop bool
}

func (s *videoSource) Read(frame *gocv.Mat) bool {

	if s.vc.Read(frame) && !frame.Empty() {
		return true
	}

	if !s.loop {
		return false
	}

	// rewind and try once more
	s.vc.Set(gocv.VideoCapturePosFrames, 0)

	return s.vc.Read(frame) && !frame.Empty()
}

func (s *videoSource) Close() error {
	return s.vc.Close()
}

// deviceSource yields live frames from a camera device
type deviceSource struct {
	vc *gocv.VideoCapture
}

func (s *deviceSource) Read(frame *gocv.Mat) bool {
	return s.vc.Read(frame) && !frame.Empty()
}

func (s *deviceSource) Close() error {
	return s.vc.Close()
}
