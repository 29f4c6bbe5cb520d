package client

import (
	"bytes"
	"sync"

	"robosnap_server/errors"
	"robosnap_server/schemas"

	"github.com/disintegration/imaging"
)

// Lens selects the camera
type Lens int

const (
	LensBack Lens = iota
	LensFront
)

// CaptureState is where the capture screen is
type CaptureState int

const (
	Viewfinder CaptureState = iota
	Preview
)

// Camera captures one still as jpeg
type Camera interface {
	Capture(lens Lens, torch bool) ([]byte, error)
}

// Uploader stores a photo; *Session is one
type Uploader interface {
	UploadPhoto(jpeg []byte) (schemas.PhotoSchema, error)
}

// CaptureFlow is the capture screen:
//
//	Viewfinder -shutter-> Preview -discard-> Viewfinder
//	Preview -save-> Preview (saved, or unsaved with the error)
//	any -blur-> Viewfinder
type CaptureFlow struct {
	camera   Camera
	uploader Uploader

	mu    sync.Mutex
	state CaptureState
	lens  Lens
	torch bool
	photo []byte
	saved *schemas.PhotoSchema
	err   error
	// shot counts captures so a late upload result for a discarded shot is dropped
	shot uint64
}

func NewCaptureFlow(camera Camera, uploader Uploader) *CaptureFlow {
	return &CaptureFlow{camera: camera, uploader: uploader}
}

func (f *CaptureFlow) State() CaptureState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *CaptureFlow) Lens() Lens {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lens
}

func (f *CaptureFlow) Torch() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.torch
}

// Photo returns the previewed jpeg, nil in the viewfinder
func (f *CaptureFlow) Photo() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.photo
}

// Saved reports whether the previewed photo reached the library
func (f *CaptureFlow) Saved() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saved != nil
}

// Err returns the last save failure for the previewed photo
func (f *CaptureFlow) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// ToggleLens switches between back and front camera
func (f *CaptureFlow) ToggleLens() Lens {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lens == LensBack {
		f.lens = LensFront
	} else {
		f.lens = LensBack
	}
	return f.lens
}

// ToggleTorch switches the flash, which stays lit while on
func (f *CaptureFlow) ToggleTorch() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.torch = !f.torch
	return f.torch
}

// Shutter captures a still and shows it. Front lens captures are mirrored.
func (f *CaptureFlow) Shutter() error {

	f.mu.Lock()
	if f.state != Viewfinder {
		f.mu.Unlock()
		return errors.InvalidArgument("State")
	}
	lens, torch := f.lens, f.torch
	f.mu.Unlock()

	photo, err := f.camera.Capture(lens, torch)
	if err != nil {
		if errors.CodeOf(err) == "" {
			return errors.Transport("capture", err)
		}
		return err
	}

	if lens == LensFront {
		if photo, err = FlipHorizontal(photo); err != nil {
			return errors.Transport("flip", err)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset()
	f.state = Preview
	f.photo = photo
	return nil
}

// Discard drops the previewed photo
func (f *CaptureFlow) Discard() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != Preview {
		return errors.InvalidArgument("State")
	}
	f.reset()
	return nil
}

// Blur is focus loss: whatever the state, go back to the viewfinder
func (f *CaptureFlow) Blur() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset()
}

// Save uploads the previewed photo. The flow stays in Preview either way; a
// failure is kept in Err and the photo stays unsaved. Saving twice uploads once.
func (f *CaptureFlow) Save() (schemas.PhotoSchema, error) {

	f.mu.Lock()
	if f.state != Preview {
		f.mu.Unlock()
		return schemas.PhotoSchema{}, errors.InvalidArgument("State")
	}
	if f.saved != nil {
		saved := *f.saved
		f.mu.Unlock()
		return saved, nil
	}
	photo, shot := f.photo, f.shot
	f.mu.Unlock()

	saved, err := f.uploader.UploadPhoto(photo)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.shot != shot || f.state != Preview {
		return saved, err
	}

	if err != nil {
		f.err = err
		return schemas.PhotoSchema{}, err
	}

	f.err = nil
	f.saved = &saved
	return saved, nil
}

func (f *CaptureFlow) reset() {
	f.state = Viewfinder
	f.photo = nil
	f.saved = nil
	f.err = nil
	f.shot++
}

// FlipHorizontal mirrors a jpeg left to right
func FlipHorizontal(photo []byte) ([]byte, error) {

	src, err := imaging.Decode(bytes.NewReader(photo), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err = imaging.Encode(&out, imaging.FlipH(src), imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
