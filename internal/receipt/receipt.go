// Package receipt records the parameters of a hide run so the payload can
// be revealed and verified later.
package receipt

// Receipt is written by `lsbsteg hide --receipt` and read by reveal/verify.
type Receipt struct {
	Version        int        `json:"version"`
	GeneratedAt    string     `json:"generated_at"`
	Mode           string     `json:"mode"`                // "string", "image" or "file"
	BPP            int        `json:"bpp"`                 // bits used per pixel byte
	RLEWidth       int        `json:"rle_width,omitempty"` // count field bytes, 0 = no RLE
	PayloadLength  int        `json:"payload_length"`      // bytes embedded (after RLE)
	PayloadHash    string     `json:"payload_hash"`        // xxhash64 of the embedded bytes
	OriginalLength int        `json:"original_length"`     // bytes before RLE
	Cover          CoverInfo  `json:"cover"`
	Output         OutputInfo `json:"output"`
	Source         string     `json:"source,omitempty"` // hidden file or image path
}

// CoverInfo describes the carrier image.
type CoverInfo struct {
	Path     string `json:"path"`
	Format   string `json:"format"`
	Width    int32  `json:"width"`
	Height   int32  `json:"height"`
	Channels int32  `json:"channels"`
	Hash     string `json:"hash,omitempty"` // xxhash64 of the cover file
}

// OutputInfo describes the written stego image.
type OutputInfo struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	Lossy  bool   `json:"lossy,omitempty"`
}

// Modes accepted in a receipt.
const (
	ModeString = "string"
	ModeImage  = "image"
	ModeFile   = "file"
)

// SupportedVersion is the current schema version.
const SupportedVersion = 1
