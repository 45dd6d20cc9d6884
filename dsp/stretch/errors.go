package stretch

import "errors"

var (
	ErrInvalidChannels   = errors.New("stretch: channel count must be positive")
	ErrInvalidSampleRate = errors.New("stretch: sample rate must be positive and finite")
	ErrInvalidBlock      = errors.New("stretch: invalid block/interval")
	ErrInvalidTranspose  = errors.New("stretch: invalid transpose settings")
	ErrInvalidWindow     = errors.New("stretch: unknown analysis window")
	ErrInvalidFrames     = errors.New("stretch: output frame count must be >= 0")
)
