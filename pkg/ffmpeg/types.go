package ffmpeg

// AudioMetadata represents metadata extracted from an audio file
type AudioMetadata struct {
	Duration   float64 `json:"duration"`    // Duration in seconds
	SampleRate int     `json:"sample_rate"` // Sample rate in Hz
	Channels   int     `json:"channels"`    // Number of audio channels
	Bitrate    int     `json:"bitrate"`     // Bitrate in bits per second
	Format     string  `json:"format"`      // Container format names reported by ffprobe
	Codec      string  `json:"codec"`       // Audio codec
	Size       int64   `json:"size"`        // File size in bytes
}

// CaptureFormat describes the input device and the encoding of a recording
type CaptureFormat struct {
	InputFormat string `json:"input_format"` // ffmpeg input device format (pulse, alsa, avfoundation)
	Device      string `json:"device"`
	SampleRate  int    `json:"sample_rate"`
	Channels    int    `json:"channels"`
	Codec       string `json:"codec"`
	Bitrate     string `json:"bitrate"`
	Extension   string `json:"extension"`
}

// DefaultCaptureFormat is mono AMR narrowband in a 3GPP container
func DefaultCaptureFormat() CaptureFormat {
	return CaptureFormat{
		InputFormat: "pulse",
		Device:      "default",
		SampleRate:  8000,
		Channels:    1,
		Codec:       "libopencore_amrnb",
		Bitrate:     "12.2k",
		Extension:   ".3gp",
	}
}

// withDefaults fills unset fields from DefaultCaptureFormat
func (f CaptureFormat) withDefaults() CaptureFormat {
	d := DefaultCaptureFormat()
	if f.InputFormat == "" {
		f.InputFormat = d.InputFormat
	}
	if f.Device == "" {
		f.Device = d.Device
	}
	if f.SampleRate <= 0 {
		f.SampleRate = d.SampleRate
	}
	if f.Channels <= 0 {
		f.Channels = d.Channels
	}
	if f.Codec == "" {
		f.Codec = d.Codec
	}
	if f.Bitrate == "" {
		f.Bitrate = d.Bitrate
	}
	if f.Extension == "" {
		f.Extension = d.Extension
	}
	return f
}
